package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the authoritative per-employee entitlement row. One row per
// (company, employee, calendar year). Rows are provisioned by HR tooling
// outside this service; this core only reads and debits them.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balances_company_employee_year"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balances_company_employee_year"`
	Year       int       `gorm:"not null;uniqueIndex:uq_balances_company_employee_year"`

	// Remaining paid-leave units, in half-day granularity.
	Remaining decimal.Decimal `gorm:"type:numeric(6,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
