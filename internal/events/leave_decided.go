package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

// LeaveDecidedEvent is published after a decision commits. The consumer
// turns it into a best-effort status e-mail to the requester.
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	DaysCount  string    `json:"days_count"`
	Comments   string    `json:"comments,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
