package notification

import (
	"context"
	"database/sql"

	"leavehub/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindAllByRecipient(ctx context.Context, companyID, recipientID string) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) (bool, error)
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

// Create honors WithTx so the requester's outcome notification commits or
// rolls back together with the decision it describes.
func (r *repository) Create(ctx context.Context, n *Notification) error {
	if r.tx != nil {
		const query = `
INSERT INTO notifications (id, company_id, recipient_id, type, message, link, read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
`
		_, err := r.tx.ExecContext(ctx, query,
			n.ID, n.CompanyID, n.RecipientID, n.Type, n.Message, n.Link,
		)
		return err
	}

	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindAllByRecipient(ctx context.Context, companyID, recipientID string) ([]Notification, error) {
	var notifications []Notification
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("recipient_id = ?", recipientID).
		Order("read ASC, created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *repository) MarkRead(ctx context.Context, companyID, recipientID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ?", companyID).
		Where("recipient_id = ?", recipientID).
		Where("id = ?", id).
		Update("read", true)
	return res.RowsAffected > 0, res.Error
}
