package request

import (
	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/workflow"
)

func leaveToRequest(row *models.LeaveRequest) *workflow.Request {
	return &workflow.Request{
		ID:              row.ID,
		Kind:            workflow.KindLeave,
		OwnerID:         row.UserID,
		Start:           row.StartDate,
		End:             row.EndDate,
		Reason:          row.Reason,
		Status:          row.Status,
		ApproverID:      row.ApproverID,
		RejectionReason: row.RejectionReason,
		LeaveTypeID:     row.LeaveTypeID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func leaveFromRequest(r *workflow.Request) *models.LeaveRequest {
	return &models.LeaveRequest{
		ID:              r.ID,
		UserID:          r.OwnerID,
		LeaveTypeID:     r.LeaveTypeID,
		StartDate:       r.Start,
		EndDate:         r.End,
		Reason:          r.Reason,
		Status:          r.Status,
		ApproverID:      r.ApproverID,
		RejectionReason: r.RejectionReason,
	}
}

func onDutyToRequest(row *models.OnDutyLog) *workflow.Request {
	out := &workflow.Request{
		ID:              row.ID,
		Kind:            workflow.KindOnDuty,
		OwnerID:         row.UserID,
		Start:           row.StartTime,
		Open:            row.EndTime == nil,
		Location:        row.Location,
		Reason:          row.Reason,
		Status:          row.Status,
		ApproverID:      row.ApproverID,
		RejectionReason: row.RejectionReason,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}

	if row.EndTime != nil {
		out.End = *row.EndTime
	}

	return out
}

func onDutyFromRequest(r *workflow.Request) *models.OnDutyLog {
	row := &models.OnDutyLog{
		ID:              r.ID,
		UserID:          r.OwnerID,
		StartTime:       r.Start,
		Location:        r.Location,
		Reason:          r.Reason,
		Status:          r.Status,
		ApproverID:      r.ApproverID,
		RejectionReason: r.RejectionReason,
	}

	if !r.Open {
		end := r.End
		row.EndTime = &end
	}

	return row
}

func timeOffToRequest(row *models.TimeOffLog) *workflow.Request {
	return &workflow.Request{
		ID:              row.ID,
		Kind:            workflow.KindTimeOff,
		OwnerID:         row.UserID,
		Start:           row.StartTime,
		End:             row.EndTime,
		Date:            row.Date,
		Reason:          row.Reason,
		Status:          row.Status,
		ApproverID:      row.ApproverID,
		RejectionReason: row.RejectionReason,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func timeOffFromRequest(r *workflow.Request) *models.TimeOffLog {
	return &models.TimeOffLog{
		ID:              r.ID,
		UserID:          r.OwnerID,
		Date:            r.Date,
		StartTime:       r.Start,
		EndTime:         r.End,
		Reason:          r.Reason,
		Status:          r.Status,
		ApproverID:      r.ApproverID,
		RejectionReason: r.RejectionReason,
	}
}
