// Package request implements the lifecycle engine's persistence port on gorm,
// mapping the three request tables onto the shared request snapshot.
package request

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/workflow"
)

const (
	whereID            = "id = ?"
	whereIDAndStatus   = "id = ? AND status = ?"
	whereOwnerDecision = "user_id = ? AND status IN ? AND id <> ?"
)

// activeStatuses are the statuses the overlap rule compares against.
var activeStatuses = []models.RequestStatus{models.StatusPending, models.StatusApproved}

// Store is the gorm implementation of workflow.Store.
type Store struct {
	db *gorm.DB
}

// NewStore creates a request store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Find implements workflow.Store.
func (s *Store) Find(kind workflow.Kind, id uint64) (*workflow.Request, error) {
	switch kind {
	case workflow.KindLeave:
		var row models.LeaveRequest
		if err := s.first(&row, id); err != nil {
			return nil, err
		}

		return leaveToRequest(&row), nil
	case workflow.KindOnDuty:
		var row models.OnDutyLog
		if err := s.first(&row, id); err != nil {
			return nil, err
		}

		return onDutyToRequest(&row), nil
	case workflow.KindTimeOff:
		var row models.TimeOffLog
		if err := s.first(&row, id); err != nil {
			return nil, err
		}

		return timeOffToRequest(&row), nil
	default:
		return nil, workflow.ErrInvalidKind
	}
}

func (s *Store) first(dest any, id uint64) error {
	err := s.db.Where(whereID, id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workflow.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}

	return nil
}

// Create implements workflow.Store.
func (s *Store) Create(r *workflow.Request) error {
	switch r.Kind {
	case workflow.KindLeave:
		row := leaveFromRequest(r)
		if err := s.db.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		*r = *leaveToRequest(row)
	case workflow.KindOnDuty:
		row := onDutyFromRequest(r)
		if err := s.db.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create on-duty log: %w", err)
		}

		*r = *onDutyToRequest(row)
	case workflow.KindTimeOff:
		row := timeOffFromRequest(r)
		if err := s.db.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create time-off log: %w", err)
		}

		*r = *timeOffToRequest(row)
	default:
		return workflow.ErrInvalidKind
	}

	return nil
}

// Update implements workflow.Store. It persists the owner-editable fields
// and, for on-duty, the end timestamp that closes the visit.
func (s *Store) Update(r *workflow.Request) error {
	var err error

	switch r.Kind {
	case workflow.KindLeave:
		err = s.db.Model(&models.LeaveRequest{}).Where(whereID, r.ID).Updates(map[string]any{
			"start_date":    r.Start,
			"end_date":      r.End,
			"reason":        r.Reason,
			"leave_type_id": r.LeaveTypeID,
		}).Error
	case workflow.KindOnDuty:
		var end *time.Time
		if !r.Open {
			end = &r.End
		}

		err = s.db.Model(&models.OnDutyLog{}).Where(whereID, r.ID).Updates(map[string]any{
			"start_time": r.Start,
			"end_time":   end,
			"location":   r.Location,
			"reason":     r.Reason,
		}).Error
	case workflow.KindTimeOff:
		err = s.db.Model(&models.TimeOffLog{}).Where(whereID, r.ID).Updates(map[string]any{
			"date":       r.Date,
			"start_time": r.Start,
			"end_time":   r.End,
			"reason":     r.Reason,
		}).Error
	default:
		return workflow.ErrInvalidKind
	}

	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	return nil
}

// UpdateDecision implements workflow.Store. The prior status acts as a
// compare-and-set guard so two concurrent decisions cannot both win.
func (s *Store) UpdateDecision(r *workflow.Request, prior models.RequestStatus) error {
	updates := map[string]any{
		"status":           r.Status,
		"approver_id":      r.ApproverID,
		"rejection_reason": r.RejectionReason,
	}

	var tx *gorm.DB

	switch r.Kind {
	case workflow.KindLeave:
		tx = s.db.Model(&models.LeaveRequest{}).Where(whereIDAndStatus, r.ID, prior).Updates(updates)
	case workflow.KindOnDuty:
		tx = s.db.Model(&models.OnDutyLog{}).Where(whereIDAndStatus, r.ID, prior).Updates(updates)
	case workflow.KindTimeOff:
		tx = s.db.Model(&models.TimeOffLog{}).Where(whereIDAndStatus, r.ID, prior).Updates(updates)
	default:
		return workflow.ErrInvalidKind
	}

	if tx.Error != nil {
		return fmt.Errorf("failed to update decision: %w", tx.Error)
	}

	if tx.RowsAffected == 0 {
		return workflow.ErrInvalidTransition
	}

	return nil
}

// Delete implements workflow.Store.
func (s *Store) Delete(kind workflow.Kind, id uint64) error {
	var tx *gorm.DB

	switch kind {
	case workflow.KindLeave:
		tx = s.db.Delete(&models.LeaveRequest{}, id)
	case workflow.KindOnDuty:
		tx = s.db.Delete(&models.OnDutyLog{}, id)
	case workflow.KindTimeOff:
		tx = s.db.Delete(&models.TimeOffLog{}, id)
	default:
		return workflow.ErrInvalidKind
	}

	if tx.Error != nil {
		return fmt.Errorf("failed to delete request: %w", tx.Error)
	}

	if tx.RowsAffected == 0 {
		return workflow.ErrNotFound
	}

	return nil
}

// FindOverlapping implements workflow.Store. Bounds are inclusive: an
// interval touching another at a single day or instant still collides.
// On-duty visits have no overlap rule.
func (s *Store) FindOverlapping(
	kind workflow.Kind,
	ownerID uint64,
	start, end time.Time,
	excludeID uint64,
) (*workflow.Request, error) {
	switch kind {
	case workflow.KindLeave:
		var row models.LeaveRequest

		err := s.db.Where(whereOwnerDecision, ownerID, activeStatuses, excludeID).
			Where("start_date <= ? AND end_date >= ?", end, start).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to check leave overlap: %w", err)
		}

		return leaveToRequest(&row), nil
	case workflow.KindTimeOff:
		var row models.TimeOffLog

		year, month, day := start.Date()
		date := time.Date(year, month, day, 0, 0, 0, 0, start.Location())

		err := s.db.Where(whereOwnerDecision, ownerID, activeStatuses, excludeID).
			Where("date = ?", date).
			Where("start_time <= ? AND end_time >= ?", end, start).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to check time-off overlap: %w", err)
		}

		return timeOffToRequest(&row), nil
	case workflow.KindOnDuty:
		return nil, nil
	default:
		return nil, workflow.ErrInvalidKind
	}
}

// FindOpen implements workflow.Store.
func (s *Store) FindOpen(ownerID uint64) (*workflow.Request, error) {
	var row models.OnDutyLog

	err := s.db.Where("user_id = ? AND end_time IS NULL", ownerID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find open visit: %w", err)
	}

	return onDutyToRequest(&row), nil
}

// List implements workflow.Store. A nil owner set means no owner
// restriction. A pending on-duty listing never includes open visits.
func (s *Store) List(
	kind workflow.Kind,
	ownerIDs []uint64,
	status *models.RequestStatus,
) ([]workflow.Request, error) {
	var tx *gorm.DB

	switch kind {
	case workflow.KindLeave:
		tx = s.db.Model(&models.LeaveRequest{})
	case workflow.KindOnDuty:
		tx = s.db.Model(&models.OnDutyLog{})
	case workflow.KindTimeOff:
		tx = s.db.Model(&models.TimeOffLog{})
	default:
		return nil, workflow.ErrInvalidKind
	}

	if ownerIDs != nil {
		tx = tx.Where("user_id IN ?", ownerIDs)
	}

	if status != nil {
		tx = tx.Where("status = ?", *status)

		if kind == workflow.KindOnDuty && *status == models.StatusPending {
			tx = tx.Where("end_time IS NOT NULL")
		}
	}

	tx = tx.Order("id DESC")

	switch kind {
	case workflow.KindLeave:
		var rows []models.LeaveRequest
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list leave requests: %w", err)
		}

		out := make([]workflow.Request, 0, len(rows))
		for i := range rows {
			out = append(out, *leaveToRequest(&rows[i]))
		}

		return out, nil
	case workflow.KindOnDuty:
		var rows []models.OnDutyLog
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list on-duty logs: %w", err)
		}

		out := make([]workflow.Request, 0, len(rows))
		for i := range rows {
			out = append(out, *onDutyToRequest(&rows[i]))
		}

		return out, nil
	default:
		var rows []models.TimeOffLog
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list time-off logs: %w", err)
		}

		out := make([]workflow.Request, 0, len(rows))
		for i := range rows {
			out = append(out, *timeOffToRequest(&rows[i]))
		}

		return out, nil
	}
}

// CreateApproval implements workflow.Store.
func (s *Store) CreateApproval(onDutyLogID, managerID uint64) error {
	record := &models.OnDutyApproval{
		OnDutyLogID: onDutyLogID,
		ManagerID:   managerID,
	}

	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create approval record: %w", err)
	}

	return nil
}
