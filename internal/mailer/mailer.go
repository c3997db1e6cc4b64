package mailer

import "context"

// Dispatcher delivers the leave status e-mail. Best effort by contract: the
// decision has already committed when this runs, so failures are logged by
// the caller and never propagated back into the workflow.
type Dispatcher interface {
	SendLeaveStatusUpdate(ctx context.Context, recipientEmail, recipientName, leaveTypeLabel, status, comments string) error
}

type noopDispatcher struct{}

// NewNoopDispatcher is used in tests and in environments without SMTP.
func NewNoopDispatcher() Dispatcher {
	return noopDispatcher{}
}

func (noopDispatcher) SendLeaveStatusUpdate(context.Context, string, string, string, string, string) error {
	return nil
}
