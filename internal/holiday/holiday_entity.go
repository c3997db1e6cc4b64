package holiday

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_holidays_company_date"`

	Name string    `gorm:"type:varchar(150);not null"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex:uq_holidays_company_date"`

	// Recurring holidays repeat every year on the same month and day
	// (national days, founding anniversaries).
	Recurring bool `gorm:"not null;default:false"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
