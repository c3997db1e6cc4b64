package consumer

import (
	"context"
	"encoding/json"

	"leavehub/internal/employee"
	"leavehub/internal/events"
	"leavehub/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecided sends the status e-mail for every decided leave
// request. Delivery is best effort: a failed send is logged and the message
// is committed anyway, because the decision itself is long since final.
func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	employees employee.Repository,
	dispatcher mailer.Dispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		empl, err := employees.FindByIDAndCompany(ctx, event.CompanyID, event.EmployeeID)
		if err != nil {
			log.Error("resolve leave requester failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := dispatcher.SendLeaveStatusUpdate(
			ctx,
			empl.Email,
			empl.FullName,
			event.LeaveType,
			event.Status,
			event.Comments,
		); err != nil {
			log.Error("send leave status mail failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("leave status mail processed",
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
	}
}
