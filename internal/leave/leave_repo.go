package leave

import (
	"context"
	"database/sql"
	"time"

	"leavehub/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	MarkDecided(ctx context.Context, companyID, id, status, approverID string, comments *string, decidedAt time.Time) (bool, error)
	DeleteIfPending(ctx context.Context, companyID, employeeID, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	if r.tx != nil {
		const query = `
INSERT INTO leave_requests
	(id, company_id, employee_id, leave_type, leave_duration, half_day_period,
	 start_date, end_date, days_count, reason, attachment_ref, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
`
		_, err := r.tx.ExecContext(ctx, query,
			l.ID, l.CompanyID, l.EmployeeID, l.LeaveType, l.LeaveDuration, l.HalfDayPeriod,
			l.StartDate, l.EndDate, l.DaysCount, l.Reason, l.AttachmentRef, l.Status,
		)
		return err
	}

	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// MarkDecided flips a request out of pending. The status filter in the WHERE
// clause is the concurrency guard: when two approvers race, only the first
// UPDATE matches and the second sees zero rows.
func (r *repository) MarkDecided(ctx context.Context, companyID, id, status, approverID string, comments *string, decidedAt time.Time) (bool, error) {
	if r.tx != nil {
		const query = `
UPDATE leave_requests
SET status = $1, approved_by = $2, decision_comments = $3, decided_at = $4, updated_at = NOW()
WHERE company_id = $5 AND id = $6 AND status = 'pending'
`
		res, err := r.tx.ExecContext(ctx, query,
			status, approverID, comments, decidedAt, companyID, id,
		)
		if err != nil {
			return false, err
		}
		rows, err := res.RowsAffected()
		return rows > 0, err
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("company_id = ?", companyID).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":            status,
			"approved_by":       approverID,
			"decision_comments": comments,
			"decided_at":        decidedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// DeleteIfPending removes the request only while it is still undecided, so a
// cancel racing a decision loses cleanly.
func (r *repository) DeleteIfPending(ctx context.Context, companyID, employeeID, id string) (bool, error) {
	if r.tx != nil {
		const query = `
DELETE FROM leave_requests
WHERE company_id = $1 AND employee_id = $2 AND id = $3 AND status = 'pending'
`
		res, err := r.tx.ExecContext(ctx, query, companyID, employeeID, id)
		if err != nil {
			return false, err
		}
		rows, err := res.RowsAffected()
		return rows > 0, err
	}

	res := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Delete(&LeaveRequest{})
	return res.RowsAffected > 0, res.Error
}
