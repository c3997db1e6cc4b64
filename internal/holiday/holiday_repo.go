package holiday

import (
	"context"

	"leavehub/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, h *Holiday) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Holiday, error)
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&h, "id = ?", id).Error
	return &h, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Holiday{}, "id = ?", id).Error
}
