package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeaveSubmitted = "leave_submitted"
	TypeLeaveDecision  = "leave_decision"
)

// Notification is immutable once created except for the read flag.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`

	Type    string `gorm:"type:varchar(40);not null"`
	Message string `gorm:"type:text;not null"`
	Link    string `gorm:"type:varchar(255)"`
	Read    bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
}
