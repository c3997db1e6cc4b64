package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	FullName string `gorm:"type:varchar(150);not null"`
	Email    string `gorm:"type:varchar(255);uniqueIndex"`

	// Role is the flat role model supplied by the identity provider:
	// employee, manager, owner or admin.
	Role     string `gorm:"type:varchar(20);not null;default:'employee'"`
	IsActive bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
