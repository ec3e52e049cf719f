package request

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/workflow"
)

const (
	ownerID    uint64 = 1
	approverID uint64 = 2
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LeaveType{},
		&models.LeaveRequest{},
		&models.OnDutyLog{},
		&models.OnDutyApproval{},
		&models.TimeOffLog{},
	)
	require.NoError(t, err)

	users := []models.User{
		{ID: ownerID, Active: true, Username: "owner", Email: "owner@example.com"},
		{ID: approverID, Active: true, Username: "approver", Email: "approver@example.com"},
	}
	require.NoError(t, db.Create(&users).Error)

	return db
}

func day(d int) time.Time {
	return time.Date(2025, time.December, d, 0, 0, 0, 0, time.UTC)
}

func createLeave(t *testing.T, store *Store, status models.RequestStatus, start, end time.Time) *workflow.Request {
	t.Helper()

	r := &workflow.Request{
		Kind:    workflow.KindLeave,
		OwnerID: ownerID,
		Start:   start,
		End:     end,
		Reason:  "trip",
		Status:  status,
	}
	require.NoError(t, store.Create(r))

	return r
}

func TestCreateAndFind(t *testing.T) {
	store := NewStore(setupTestDB(t))

	created := createLeave(t, store, models.StatusPending, day(10), day(12))
	assert.NotZero(t, created.ID)

	found, err := store.Find(workflow.KindLeave, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, ownerID, found.OwnerID)
	assert.Equal(t, models.StatusPending, found.Status)

	t.Run("kinds do not cross", func(t *testing.T) {
		_, err := store.Find(workflow.KindTimeOff, created.ID)
		assert.ErrorIs(t, err, workflow.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Find(workflow.KindLeave, 999)
		assert.ErrorIs(t, err, workflow.ErrNotFound)
	})
}

func TestFindOverlappingLeave(t *testing.T) {
	store := NewStore(setupTestDB(t))

	existing := createLeave(t, store, models.StatusApproved, day(10), day(12))

	testCases := []struct {
		name     string
		start    time.Time
		end      time.Time
		collides bool
	}{
		{name: "starting on the last day collides", start: day(12), end: day(14), collides: true},
		{name: "ending on the first day collides", start: day(8), end: day(10), collides: true},
		{name: "contained interval collides", start: day(11), end: day(11), collides: true},
		{name: "surrounding interval collides", start: day(8), end: day(14), collides: true},
		{name: "starting the day after is clear", start: day(13), end: day(14), collides: false},
		{name: "ending the day before is clear", start: day(8), end: day(9), collides: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.FindOverlapping(workflow.KindLeave, ownerID, tc.start, tc.end, 0)
			require.NoError(t, err)

			if tc.collides {
				require.NotNil(t, got)
				assert.Equal(t, existing.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}

	t.Run("rejected requests do not collide", func(t *testing.T) {
		createLeave(t, store, models.StatusRejected, day(20), day(22))

		got, err := store.FindOverlapping(workflow.KindLeave, ownerID, day(20), day(22), 0)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("the excluded id is skipped", func(t *testing.T) {
		got, err := store.FindOverlapping(workflow.KindLeave, ownerID, day(11), day(13), existing.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("other owners do not collide", func(t *testing.T) {
		got, err := store.FindOverlapping(workflow.KindLeave, approverID, day(10), day(12), 0)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFindOverlappingTimeOff(t *testing.T) {
	store := NewStore(setupTestDB(t))

	at := func(hour int) time.Time {
		return time.Date(2025, time.December, 10, hour, 0, 0, 0, time.UTC)
	}

	existing := &workflow.Request{
		Kind:    workflow.KindTimeOff,
		OwnerID: ownerID,
		Date:    day(10),
		Start:   at(9),
		End:     at(11),
		Reason:  "errand",
		Status:  models.StatusPending,
	}
	require.NoError(t, store.Create(existing))

	t.Run("touching instant collides", func(t *testing.T) {
		got, err := store.FindOverlapping(workflow.KindTimeOff, ownerID, at(11), at(13), 0)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, existing.ID, got.ID)
	})

	t.Run("later the same day is clear", func(t *testing.T) {
		got, err := store.FindOverlapping(workflow.KindTimeOff, ownerID, at(12), at(13), 0)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("on-duty has no overlap rule", func(t *testing.T) {
		got, err := store.FindOverlapping(workflow.KindOnDuty, ownerID, at(9), at(11), 0)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUpdateDecisionCompareAndSet(t *testing.T) {
	store := NewStore(setupTestDB(t))

	request := createLeave(t, store, models.StatusPending, day(10), day(12))

	actor := approverID
	request.Status = models.StatusApproved
	request.ApproverID = &actor

	require.NoError(t, store.UpdateDecision(request, models.StatusPending))

	stored, err := store.Find(workflow.KindLeave, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	require.NotNil(t, stored.ApproverID)
	assert.Equal(t, approverID, *stored.ApproverID)

	t.Run("a stale prior status loses the race", func(t *testing.T) {
		request.Status = models.StatusRejected

		err := store.UpdateDecision(request, models.StatusPending)
		assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	})
}

func TestUpdateClosesOnDutyVisit(t *testing.T) {
	store := NewStore(setupTestDB(t))

	visit := &workflow.Request{
		Kind:    workflow.KindOnDuty,
		OwnerID: ownerID,
		Start:   time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC),
		Open:    true,
		Reason:  "visit",
		Status:  models.StatusPending,
	}
	require.NoError(t, store.Create(visit))

	open, err := store.FindOpen(ownerID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, visit.ID, open.ID)

	visit.Open = false
	visit.End = visit.Start.Add(8 * time.Hour)
	require.NoError(t, store.Update(visit))

	open, err = store.FindOpen(ownerID)
	require.NoError(t, err)
	assert.Nil(t, open)

	closed, err := store.Find(workflow.KindOnDuty, visit.ID)
	require.NoError(t, err)
	assert.False(t, closed.Open)
}

func TestList(t *testing.T) {
	store := NewStore(setupTestDB(t))

	first := createLeave(t, store, models.StatusPending, day(1), day(2))
	second := createLeave(t, store, models.StatusApproved, day(5), day(6))

	other := &workflow.Request{
		Kind:    workflow.KindLeave,
		OwnerID: approverID,
		Start:   day(1),
		End:     day(2),
		Reason:  "trip",
		Status:  models.StatusPending,
	}
	require.NoError(t, store.Create(other))

	t.Run("nil owners means everything", func(t *testing.T) {
		requests, err := store.List(workflow.KindLeave, nil, nil)
		require.NoError(t, err)
		assert.Len(t, requests, 3)
	})

	t.Run("owner restriction", func(t *testing.T) {
		requests, err := store.List(workflow.KindLeave, []uint64{ownerID}, nil)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		// Newest first.
		assert.Equal(t, second.ID, requests[0].ID)
		assert.Equal(t, first.ID, requests[1].ID)
	})

	t.Run("status restriction", func(t *testing.T) {
		pending := models.StatusPending

		requests, err := store.List(workflow.KindLeave, []uint64{ownerID}, &pending)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, first.ID, requests[0].ID)
	})

	t.Run("empty owner set matches nothing", func(t *testing.T) {
		requests, err := store.List(workflow.KindLeave, []uint64{}, nil)
		require.NoError(t, err)
		assert.Empty(t, requests)
	})
}

func TestListPendingOnDutyExcludesOpenVisits(t *testing.T) {
	store := NewStore(setupTestDB(t))

	open := &workflow.Request{
		Kind:    workflow.KindOnDuty,
		OwnerID: ownerID,
		Start:   time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC),
		Open:    true,
		Reason:  "visit",
		Status:  models.StatusPending,
	}
	require.NoError(t, store.Create(open))

	closed := &workflow.Request{
		Kind:    workflow.KindOnDuty,
		OwnerID: approverID,
		Start:   time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.December, 10, 17, 0, 0, 0, time.UTC),
		Reason:  "visit",
		Status:  models.StatusPending,
	}
	require.NoError(t, store.Create(closed))

	pending := models.StatusPending

	requests, err := store.List(workflow.KindOnDuty, nil, &pending)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, closed.ID, requests[0].ID)

	// Without the status filter both show up.
	requests, err = store.List(workflow.KindOnDuty, nil, nil)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestDelete(t *testing.T) {
	store := NewStore(setupTestDB(t))

	request := createLeave(t, store, models.StatusPending, day(10), day(12))

	require.NoError(t, store.Delete(workflow.KindLeave, request.ID))

	_, err := store.Find(workflow.KindLeave, request.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	assert.ErrorIs(t, store.Delete(workflow.KindLeave, request.ID), workflow.ErrNotFound)
}

func TestCreateApproval(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	visit := &workflow.Request{
		Kind:    workflow.KindOnDuty,
		OwnerID: ownerID,
		Start:   time.Date(2025, time.December, 10, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.December, 10, 17, 0, 0, 0, time.UTC),
		Reason:  "visit",
		Status:  models.StatusPending,
	}
	require.NoError(t, store.Create(visit))

	require.NoError(t, store.CreateApproval(visit.ID, approverID))

	var record models.OnDutyApproval
	require.NoError(t, db.Where("on_duty_log_id = ?", visit.ID).First(&record).Error)
	assert.Equal(t, approverID, record.ManagerID)
}
