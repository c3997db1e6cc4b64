package notification

import (
	"context"
	"time"

	"leavehub/internal/employee"
	notificationerrors "leavehub/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// NotifyApprovers creates one notification row per active manager/owner
	// in the company. Best effort: a failure for one recipient is logged
	// and never blocks the others or the caller.
	NotifyApprovers(ctx context.Context, companyID, ntype, message, link string)

	List(ctx context.Context, companyID, recipientID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) error
}

type service struct {
	repo      Repository
	employees employee.Service
	logger    *zap.Logger
}

func NewService(repo Repository, employees employee.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, employees: employees, logger: l}
}

func (s *service) NotifyApprovers(ctx context.Context, companyID, ntype, message, link string) {
	approvers, err := s.employees.GetActiveApprovers(ctx, companyID)
	if err != nil {
		s.logger.Error("notify approvers lookup failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		s.logger.Error("notify approvers invalid company id", zap.String("company_id", companyID))
		return
	}

	for _, approver := range approvers {
		recipientUUID, err := uuid.Parse(approver.ID)
		if err != nil {
			continue
		}

		n := &Notification{
			ID:          uuid.New(),
			CompanyID:   companyUUID,
			RecipientID: recipientUUID,
			Type:        ntype,
			Message:     message,
			Link:        link,
		}

		if err := s.repo.Create(ctx, n); err != nil {
			// Independent per-recipient failures; the submission already
			// committed and must not be affected.
			s.logger.Error("notify approver failed",
				zap.String("recipient_id", approver.ID),
				zap.String("type", ntype),
				zap.Error(err),
			)
			continue
		}
	}

	s.logger.Info("approver fan-out complete",
		zap.String("company_id", companyID),
		zap.String("type", ntype),
		zap.Int("recipients", len(approvers)),
	)
}

func (s *service) List(ctx context.Context, companyID, recipientID string) ([]NotificationResponse, error) {
	notifications, err := s.repo.FindAllByRecipient(ctx, companyID, recipientID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = NotificationResponse{
			ID:        n.ID.String(),
			Type:      n.Type,
			Message:   n.Message,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	updated, err := s.repo.MarkRead(ctx, companyID, recipientID, id)
	if err != nil {
		s.logger.Error("mark notification read failed",
			zap.String("notification_id", id),
			zap.Error(err),
		)
		return err
	}
	if !updated {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}
