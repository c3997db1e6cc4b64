package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

const (
	DurationFullDay = "full_day"
	DurationHalfDay = "half_day"
)

const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
)

// LeaveTypePaid is the only leave type currently offered.
const LeaveTypePaid = "paid leave"

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	LeaveType     string  `gorm:"type:varchar(40);not null"`
	LeaveDuration string  `gorm:"type:varchar(20);not null"`
	HalfDayPeriod *string `gorm:"type:varchar(20)"`

	StartDate time.Time       `gorm:"type:date;not null"`
	EndDate   time.Time       `gorm:"type:date;not null"`
	DaysCount decimal.Decimal `gorm:"type:numeric(5,1);not null"`

	Reason        string  `gorm:"type:text;not null"`
	AttachmentRef *string `gorm:"type:varchar(255)"`

	Status           string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ApprovedBy       *uuid.UUID `gorm:"type:uuid"`
	DecisionComments *string    `gorm:"type:text"`
	DecidedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
