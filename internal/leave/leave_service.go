package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leavehub/internal/balance"
	balanceerrors "leavehub/internal/balance/errors"
	"leavehub/internal/events"
	leaveerrors "leavehub/internal/leave/errors"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/notification"
	"leavehub/internal/shared/apperror"
	"leavehub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID, actorID, role string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, actorID, role, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Decline(ctx context.Context, companyID, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	balances      balance.Repository
	notifications notification.Repository
	notifier      notification.Service
	calendar      holidayCalendar
	outbox        kafka.OutboxRepository
	logger        *zap.Logger
}

// holidayCalendar is the slice of holiday.Service the counter needs.
type holidayCalendar interface {
	ListDates(ctx context.Context, companyID string, from, to time.Time) (map[string]struct{}, error)
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances balance.Repository,
	notifications notification.Repository,
	notifier notification.Service,
	calendar holidayCalendar,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		balances:      balances,
		notifications: notifications,
		notifier:      notifier,
		calendar:      calendar,
		outbox:        outbox,
		logger:        l,
	}
}

func (s *service) Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submitting leave request",
		zap.String("company_id", companyID),
		zap.String("employee_id", actorID),
		zap.String("leave_duration", req.LeaveDuration),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if req.LeaveType != LeaveTypePaid {
		return LeaveResponse{}, leaveerrors.ErrUnsupportedLeaveType
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}

	var (
		endDate       time.Time
		halfDayPeriod *string
	)
	switch req.LeaveDuration {
	case DurationHalfDay:
		if req.HalfDayPeriod != PeriodMorning && req.HalfDayPeriod != PeriodAfternoon {
			return LeaveResponse{}, leaveerrors.ErrHalfDayPeriodRequired
		}
		period := req.HalfDayPeriod
		halfDayPeriod = &period
		// A half day never spans dates.
		endDate = startDate
	case DurationFullDay:
		endDate = startDate
		if req.EndDate != "" {
			endDate, err = time.Parse(dateLayout, req.EndDate)
			if err != nil {
				return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
			}
		}
		if endDate.Before(startDate) {
			return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
		}
	default:
		return LeaveResponse{}, apperror.InvalidField("leave_duration")
	}

	holidays, err := s.calendar.ListDates(ctx, companyID, startDate, endDate)
	if err != nil {
		s.logger.Error("failed to load holiday calendar", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}

	days := CountChargeableDays(startDate, endDate, req.LeaveDuration, holidays)
	if !days.IsPositive() {
		s.logger.Warn("leave request covers no chargeable days",
			zap.String("employee_id", actorID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", endDate.Format(dateLayout)),
		)
		return LeaveResponse{}, leaveerrors.ErrZeroChargeableDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}
	defer tx.Rollback()

	bal, err := s.balances.WithTx(tx).FindByEmployeeAndYear(ctx, companyID, actorID, startDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("failed to load leave balance", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}
	if days.GreaterThan(bal.Remaining) {
		s.logger.Warn("leave request exceeds remaining balance",
			zap.String("employee_id", actorID),
			zap.String("requested", days.String()),
			zap.String("remaining", bal.Remaining.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance(bal.Remaining)
	}

	entry := LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		LeaveType:     req.LeaveType,
		LeaveDuration: req.LeaveDuration,
		HalfDayPeriod: halfDayPeriod,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysCount:     days,
		Reason:        req.Reason,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
	if req.AttachmentRef != "" {
		ref := req.AttachmentRef
		entry.AttachmentRef = &ref
	}

	if err := s.repo.WithTx(tx).Create(ctx, &entry); err != nil {
		s.logger.Error("failed to persist leave request", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit leave request", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}

	// Approver fan-out happens only once the request is durable. It is
	// best effort and never fails the submission.
	s.notifier.NotifyApprovers(ctx, companyID,
		notification.TypeLeaveSubmitted,
		fmt.Sprintf("New %s request for %s day(s) awaiting review", entry.LeaveType, days.String()),
		"/leaves/"+entry.ID.String(),
	)

	s.logger.Info("leave request submitted",
		zap.String("leave_id", entry.ID.String()),
		zap.String("employee_id", actorID),
		zap.String("days_count", days.String()),
	)
	return mapToResponse(entry), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID, role string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}

	var (
		leaves []LeaveRequest
		err    error
	)
	if isApproverRole(role) {
		leaves, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		leaves, err = s.repo.FindAllByEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		s.logger.Error("failed to list leave requests", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	responses := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, mapToResponse(l))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, companyID, actorID, role, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}

	if l.EmployeeID.String() != actorID && !isApproverRole(role) {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, companyID, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, companyID, approverID, id, StatusApproved, req.Comments)
}

func (s *service) Decline(ctx context.Context, companyID, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, companyID, approverID, id, StatusDeclined, req.Comments)
}

// decide settles a pending request. The conditional status update, the
// balance debit, the requester notification and the outbox event all ride
// the same transaction, so a rejected debit rolls the decision back too.
func (s *service) decide(ctx context.Context, companyID, approverID, id, status, comments string) (LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}
	defer tx.Rollback()

	var commentsPtr *string
	if comments != "" {
		commentsPtr = &comments
	}

	decidedAt := time.Now()
	updated, err := s.repo.WithTx(tx).MarkDecided(ctx, companyID, id, status, approverID, commentsPtr, decidedAt)
	if err != nil {
		s.logger.Error("failed to update leave request status", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}
	if !updated {
		// Another approver got there first.
		s.logger.Warn("decision lost the race, request no longer pending",
			zap.String("leave_id", id),
			zap.String("approver_id", approverID),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	if status == StatusApproved {
		txBalances := s.balances.WithTx(tx)
		bal, err := txBalances.FindByEmployeeAndYear(ctx, companyID, l.EmployeeID.String(), l.StartDate.Year())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, balanceerrors.ErrBalanceNotFound
			}
			s.logger.Error("failed to load leave balance", zap.Error(err))
			return LeaveResponse{}, apperror.ErrInternal
		}
		if l.DaysCount.GreaterThan(bal.Remaining) {
			s.logger.Warn("approval exceeds remaining balance",
				zap.String("leave_id", id),
				zap.String("requested", l.DaysCount.String()),
				zap.String("remaining", bal.Remaining.String()),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance(bal.Remaining)
		}
		if err := txBalances.Debit(ctx, companyID, l.EmployeeID.String(), l.StartDate.Year(), l.DaysCount); err != nil {
			s.logger.Error("failed to debit leave balance", zap.Error(err))
			return LeaveResponse{}, apperror.ErrInternal
		}
	}

	message := fmt.Sprintf("Your %s request for %s was %s", l.LeaveType, l.StartDate.Format(dateLayout), status)
	if comments != "" {
		message += ": " + comments
	}
	requesterNote := notification.Notification{
		ID:          uuid.New(),
		CompanyID:   l.CompanyID,
		RecipientID: l.EmployeeID,
		Type:        notification.TypeLeaveDecision,
		Message:     message,
		Link:        "/leaves/" + id,
	}
	if err := s.notifications.WithTx(tx).Create(ctx, &requesterNote); err != nil {
		s.logger.Error("failed to create decision notification", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}

	if s.outbox != nil {
		if err := s.enqueueDecisionEvent(ctx, tx, l, status, comments, decidedAt); err != nil {
			s.logger.Error("failed to enqueue decision event", zap.Error(err))
			return LeaveResponse{}, apperror.ErrInternal
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit decision", zap.Error(err))
		return LeaveResponse{}, apperror.ErrInternal
	}

	l.Status = status
	l.ApprovedBy = &approverUUID
	l.DecisionComments = commentsPtr
	l.DecidedAt = &decidedAt

	s.logger.Info("leave request decided",
		zap.String("leave_id", id),
		zap.String("status", status),
		zap.String("approver_id", approverID),
	)
	return mapToResponse(*l), nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, status, comments string, decidedAt time.Time) error {
	event := events.LeaveDecidedEvent{
		EventType:  "leave.decided",
		RequestID:  contextutil.GetRequestID(ctx),
		LeaveID:    l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		Status:     status,
		DaysCount:  l.DaysCount.String(),
		Comments:   comments,
		OccurredAt: decidedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return apperror.ErrInternal
	}
	// Only the requester may withdraw, and existence is not revealed to
	// anyone else.
	if l.EmployeeID.String() != actorID {
		return leaveerrors.ErrLeaveNotFound
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrNotCancellable
	}

	deleted, err := s.repo.DeleteIfPending(ctx, companyID, actorID, id)
	if err != nil {
		s.logger.Error("failed to cancel leave request", zap.Error(err))
		return apperror.ErrInternal
	}
	if !deleted {
		return leaveerrors.ErrNotCancellable
	}

	s.logger.Info("leave request cancelled",
		zap.String("leave_id", id),
		zap.String("employee_id", actorID),
	)
	return nil
}

func isApproverRole(role string) bool {
	switch role {
	case "manager", "owner", "admin":
		return true
	}
	return false
}
