package balance

import (
	"context"
	"database/sql"
	"errors"

	"leavehub/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*LeaveBalance, error)

	// Debit unconditionally decrements the remaining units. The workflow is
	// responsible for the sufficient-balance check; both must run on the
	// same transaction, which is why this method honors WithTx.
	Debit(ctx context.Context, companyID, employeeID string, year int, amount decimal.Decimal) error
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

func (r *repository) FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*LeaveBalance, error) {
	if r.tx != nil {
		// Transactional read so the balance seen by the approval check is
		// the one the debit applies to.
		const query = `
SELECT id, company_id, employee_id, year, remaining
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND year = $3
FOR UPDATE
`
		var b LeaveBalance
		err := r.tx.QueryRowContext(ctx, query, companyID, employeeID, year).
			Scan(&b.ID, &b.CompanyID, &b.EmployeeID, &b.Year, &b.Remaining)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		return &b, nil
	}

	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Debit(ctx context.Context, companyID, employeeID string, year int, amount decimal.Decimal) error {
	const query = `
UPDATE leave_balances
SET remaining = remaining - $4, updated_at = NOW()
WHERE company_id = $1 AND employee_id = $2 AND year = $3
`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, companyID, employeeID, year, amount)
		return err
	}

	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Update("remaining", gorm.Expr("remaining - ?", amount)).Error
}
