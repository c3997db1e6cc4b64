package leave

type SubmitLeaveRequest struct {
	LeaveType     string `json:"leave_type" binding:"required"`
	LeaveDuration string `json:"leave_duration" binding:"required,oneof=full_day half_day"`
	HalfDayPeriod string `json:"half_day_period" binding:"omitempty,oneof=morning afternoon"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date"`
	Reason        string `json:"reason" binding:"required"`
	AttachmentRef string `json:"attachment_ref"`
}

type DecideLeaveRequest struct {
	Comments string `json:"comments"`
}

type SignAttachmentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type LeaveResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	LeaveType        string  `json:"leave_type"`
	LeaveDuration    string  `json:"leave_duration"`
	HalfDayPeriod    *string `json:"half_day_period,omitempty"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	DaysCount        float64 `json:"days_count"`
	Reason           string  `json:"reason"`
	AttachmentRef    *string `json:"attachment_ref,omitempty"`
	Status           string  `json:"status"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	DecisionComments *string `json:"decision_comments,omitempty"`
	CreatedAt        string  `json:"created_at"`
	DecidedAt        *string `json:"decided_at,omitempty"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:               l.ID.String(),
		EmployeeID:       l.EmployeeID.String(),
		LeaveType:        l.LeaveType,
		LeaveDuration:    l.LeaveDuration,
		HalfDayPeriod:    l.HalfDayPeriod,
		StartDate:        l.StartDate.Format(dateLayout),
		EndDate:          l.EndDate.Format(dateLayout),
		DaysCount:        l.DaysCount.InexactFloat64(),
		Reason:           l.Reason,
		AttachmentRef:    l.AttachmentRef,
		Status:           l.Status,
		DecisionComments: l.DecisionComments,
		CreatedAt:        l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if l.ApprovedBy != nil {
		approver := l.ApprovedBy.String()
		resp.ApprovedBy = &approver
	}
	if l.DecidedAt != nil {
		decided := l.DecidedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.DecidedAt = &decided
	}
	return resp
}
