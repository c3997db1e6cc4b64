package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"leavehub/internal/balance"
	"leavehub/internal/leave"
	leaveerrors "leavehub/internal/leave/errors"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/notification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn            func(ctx context.Context, l *leave.LeaveRequest) error
	findAllByCompanyFn  func(ctx context.Context, companyID string) ([]leave.LeaveRequest, error)
	findAllByEmployeeFn func(ctx context.Context, companyID, employeeID string) ([]leave.LeaveRequest, error)
	findByIDFn          func(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error)
	markDecidedFn       func(ctx context.Context, companyID, id, status, approverID string, comments *string, decidedAt time.Time) (bool, error)
	deleteIfPendingFn   func(ctx context.Context, companyID, employeeID, id string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leave.LeaveRequest, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) MarkDecided(ctx context.Context, companyID, id, status, approverID string, comments *string, decidedAt time.Time) (bool, error) {
	if f.markDecidedFn != nil {
		return f.markDecidedFn(ctx, companyID, id, status, approverID, comments, decidedAt)
	}
	return true, nil
}

func (f *fakeLeaveRepository) DeleteIfPending(ctx context.Context, companyID, employeeID, id string) (bool, error) {
	if f.deleteIfPendingFn != nil {
		return f.deleteIfPendingFn(ctx, companyID, employeeID, id)
	}
	return true, nil
}

type fakeBalanceRepository struct {
	findFn  func(ctx context.Context, companyID, employeeID string, year int) (*balance.LeaveBalance, error)
	debitFn func(ctx context.Context, companyID, employeeID string, year int, amount decimal.Decimal) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeBalanceRepository) FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*balance.LeaveBalance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, companyID, employeeID, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) Debit(ctx context.Context, companyID, employeeID string, year int, amount decimal.Decimal) error {
	if f.debitFn != nil {
		return f.debitFn(ctx, companyID, employeeID, year, amount)
	}
	return nil
}

type fakeNotificationRepository struct {
	createFn func(ctx context.Context, n *notification.Notification) error
}

func (f *fakeNotificationRepository) WithTx(tx *sql.Tx) notification.Repository { return f }

func (f *fakeNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepository) FindAllByRecipient(ctx context.Context, companyID, recipientID string) ([]notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, companyID, recipientID, id string) (bool, error) {
	return false, nil
}

type fakeNotifier struct {
	notifyFn func(ctx context.Context, companyID, ntype, message, link string)
}

func (f *fakeNotifier) NotifyApprovers(ctx context.Context, companyID, ntype, message, link string) {
	if f.notifyFn != nil {
		f.notifyFn(ctx, companyID, ntype, message, link)
	}
}

func (f *fakeNotifier) List(ctx context.Context, companyID, recipientID string) ([]notification.NotificationResponse, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	return nil
}

type fakeCalendar struct {
	listDatesFn func(ctx context.Context, companyID string, from, to time.Time) (map[string]struct{}, error)
}

func (f *fakeCalendar) ListDates(ctx context.Context, companyID string, from, to time.Time) (map[string]struct{}, error) {
	if f.listDatesFn != nil {
		return f.listDatesFn(ctx, companyID, from, to)
	}
	return map[string]struct{}{}, nil
}

type fakeOutbox struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type leaveServiceDeps struct {
	db            *sql.DB
	sqlMock       sqlmock.Sqlmock
	service       leave.Service
	repo          *fakeLeaveRepository
	balances      *fakeBalanceRepository
	notifications *fakeNotificationRepository
	notifier      *fakeNotifier
	calendar      *fakeCalendar
	outbox        *fakeOutbox
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &leaveServiceDeps{
		db:            db,
		sqlMock:       sqlMock,
		repo:          &fakeLeaveRepository{},
		balances:      &fakeBalanceRepository{},
		notifications: &fakeNotificationRepository{},
		notifier:      &fakeNotifier{},
		calendar:      &fakeCalendar{},
		outbox:        &fakeOutbox{},
	}
	deps.service = leave.NewService(
		db,
		deps.repo,
		deps.balances,
		deps.notifications,
		deps.notifier,
		deps.calendar,
		deps.outbox,
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func remainingBalance(remaining string) *balance.LeaveBalance {
	return &balance.LeaveBalance{
		ID:        uuid.New(),
		Year:      2024,
		Remaining: decimal.RequireFromString(remaining),
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success full day", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, 2024, year)
			return remainingBalance("10"), nil
		}

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}
		notified := false
		deps.notifier.notifyFn = func(ctx context.Context, cid, ntype, message, link string) {
			notified = true
			assert.Equal(t, companyID, cid)
			assert.Equal(t, notification.TypeLeaveSubmitted, ntype)
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationFullDay,
			StartDate:     "2024-06-03",
			EndDate:       "2024-06-07",
			Reason:        "family trip",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, leave.StatusPending, created.Status)
		assert.Equal(t, "5", created.DaysCount.String())
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 5.0, resp.DaysCount)
		assert.True(t, notified)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success half day charges exactly half", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			return remainingBalance("0.5"), nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationHalfDay,
			HalfDayPeriod: leave.PeriodMorning,
			StartDate:     "2024-06-03",
			Reason:        "appointment",
		})

		assert.NoError(t, err)
		assert.Equal(t, 0.5, resp.DaysCount)
		assert.Equal(t, resp.StartDate, resp.EndDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative half day without period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationHalfDay,
			StartDate:     "2024-06-03",
			Reason:        "appointment",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrHalfDayPeriodRequired)
	})

	t.Run("negative unsupported leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     "sabbatical",
			LeaveDuration: leave.DurationFullDay,
			StartDate:     "2024-06-03",
			Reason:        "rest",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrUnsupportedLeaveType)
	})

	t.Run("negative sunday only range has no chargeable days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationFullDay,
			StartDate:     "2024-06-09",
			EndDate:       "2024-06-09",
			Reason:        "weekend",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrZeroChargeableDays)
	})

	t.Run("negative no balance row for the year", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationFullDay,
			StartDate:     "2024-06-03",
			EndDate:       "2024-06-04",
			Reason:        "trip",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "leave balance not found")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance reports available days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			return remainingBalance("2"), nil
		}
		notified := false
		deps.notifier.notifyFn = func(ctx context.Context, cid, ntype, message, link string) {
			notified = true
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationFullDay,
			StartDate:     "2024-06-03",
			EndDate:       "2024-06-07",
			Reason:        "trip",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient leave balance: 2 days available")
		assert.False(t, notified)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("balance year follows the start date, not the end date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var lookedUpYear int
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			lookedUpYear = year
			return remainingBalance("10"), nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, leave.SubmitLeaveRequest{
			LeaveType:     leave.LeaveTypePaid,
			LeaveDuration: leave.DurationFullDay,
			StartDate:     "2024-12-30",
			EndDate:       "2025-01-03",
			Reason:        "new year",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2024, lookedUpYear)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func pendingLeave(companyID, employeeID string, days string) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		EmployeeID:    uuid.MustParse(employeeID),
		LeaveType:     leave.LeaveTypePaid,
		LeaveDuration: leave.DurationFullDay,
		StartDate:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		DaysCount:     decimal.RequireFromString(days),
		Reason:        "trip",
		Status:        leave.StatusPending,
	}
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	approverID := uuid.New().String()

	t.Run("success debits balance and notifies requester", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		target := pendingLeave(companyID, employeeID, "3")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, 2024, year)
			return remainingBalance("3"), nil
		}

		var debited decimal.Decimal
		deps.balances.debitFn = func(ctx context.Context, cid, eid string, year int, amount decimal.Decimal) error {
			debited = amount
			return nil
		}
		var note *notification.Notification
		deps.notifications.createFn = func(ctx context.Context, n *notification.Notification) error {
			note = n
			return nil
		}
		var event kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, e kafka.OutboxEvent) error {
			event = e
			return nil
		}

		resp, err := deps.service.Approve(ctx, companyID, approverID, target.ID.String(), leave.DecideLeaveRequest{Comments: "enjoy"})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, approverID, *resp.ApprovedBy)
		assert.Equal(t, "3", debited.String())
		assert.NotNil(t, note)
		assert.Equal(t, notification.TypeLeaveDecision, note.Type)
		assert.Equal(t, target.EmployeeID, note.RecipientID)
		assert.Equal(t, "leave.decided", event.EventType)
		assert.Equal(t, target.ID.String(), event.AggregateID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided fast path", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "3")
		target.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		_, err := deps.service.Approve(ctx, companyID, approverID, target.ID.String(), leave.DecideLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
	})

	t.Run("negative lost the race, no debit", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		target := pendingLeave(companyID, employeeID, "3")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}
		deps.repo.markDecidedFn = func(ctx context.Context, cid, id, status, aid string, comments *string, decidedAt time.Time) (bool, error) {
			return false, nil
		}
		debited := false
		deps.balances.debitFn = func(ctx context.Context, cid, eid string, year int, amount decimal.Decimal) error {
			debited = true
			return nil
		}

		_, err := deps.service.Approve(ctx, companyID, approverID, target.ID.String(), leave.DecideLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.False(t, debited)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative balance shrank below the request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		target := pendingLeave(companyID, employeeID, "3")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			return remainingBalance("2.5"), nil
		}
		debited := false
		deps.balances.debitFn = func(ctx context.Context, cid, eid string, year int, amount decimal.Decimal) error {
			debited = true
			return nil
		}

		_, err := deps.service.Approve(ctx, companyID, approverID, target.ID.String(), leave.DecideLeaveRequest{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient leave balance: 2.5 days available")
		assert.False(t, debited)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, companyID, approverID, uuid.New().String(), leave.DecideLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Decline(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	approverID := uuid.New().String()

	t.Run("success leaves the balance untouched", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		target := pendingLeave(companyID, employeeID, "3")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}
		balanceTouched := false
		deps.balances.findFn = func(ctx context.Context, cid, eid string, year int) (*balance.LeaveBalance, error) {
			balanceTouched = true
			return remainingBalance("3"), nil
		}
		deps.balances.debitFn = func(ctx context.Context, cid, eid string, year int, amount decimal.Decimal) error {
			balanceTouched = true
			return nil
		}
		var note *notification.Notification
		deps.notifications.createFn = func(ctx context.Context, n *notification.Notification) error {
			note = n
			return nil
		}

		resp, err := deps.service.Decline(ctx, companyID, approverID, target.ID.String(), leave.DecideLeaveRequest{Comments: "short staffed"})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusDeclined, resp.Status)
		assert.False(t, balanceTouched)
		assert.NotNil(t, note)
		assert.Contains(t, note.Message, "declined")
		assert.Contains(t, note.Message, "short staffed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative repo failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		target := pendingLeave(companyID, employeeID, "3")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}
		deps.repo.markDecidedFn = func(ctx context.Context, cid, id, status, aid string, comments *string, decidedAt time.Time) (bool, error) {
			return false, errors.New("db error")
		}

		_, err := deps.service.Decline(ctx, companyID, approverID, target.ID.String(), leave.DecideLeaveRequest{})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success pending request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		err := deps.service.Cancel(ctx, companyID, employeeID, target.ID.String())

		assert.NoError(t, err)
	})

	t.Run("negative decided request cannot be cancelled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		target.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		err := deps.service.Cancel(ctx, companyID, employeeID, target.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotCancellable)
	})

	t.Run("negative someone else's request looks absent", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		err := deps.service.Cancel(ctx, companyID, uuid.New().String(), target.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative cancel races a decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}
		deps.repo.deleteIfPendingFn = func(ctx context.Context, cid, eid, id string) (bool, error) {
			return false, nil
		}

		err := deps.service.Cancel(ctx, companyID, employeeID, target.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotCancellable)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("employees see only their own requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		companyQueried := false
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
			companyQueried = true
			return nil, nil
		}
		deps.repo.findAllByEmployeeFn = func(ctx context.Context, cid, eid string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, employeeID, eid)
			return []leave.LeaveRequest{*pendingLeave(companyID, employeeID, "1")}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID, employeeID, "employee")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.False(t, companyQueried)
	})

	t.Run("managers see the whole company", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, companyID, cid)
			return []leave.LeaveRequest{
				*pendingLeave(companyID, employeeID, "1"),
				*pendingLeave(companyID, uuid.New().String(), "2"),
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID, uuid.New().String(), "manager")

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("requester reads own request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		resp, err := deps.service.GetByID(ctx, companyID, employeeID, "employee", target.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, target.ID.String(), resp.ID)
	})

	t.Run("negative other employee is forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		_, err := deps.service.GetByID(ctx, companyID, uuid.New().String(), "employee", target.ID.String())

		assert.Error(t, err)
	})

	t.Run("manager reads any request in the company", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		target := pendingLeave(companyID, employeeID, "2")
		deps.repo.findByIDFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return target, nil
		}

		resp, err := deps.service.GetByID(ctx, companyID, uuid.New().String(), "manager", target.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, target.ID.String(), resp.ID)
	})
}
