package employee

import (
	"context"

	"leavehub/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	FindActiveApprovers(ctx context.Context, companyID string) ([]Employee, error)
	BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindActiveApprovers(ctx context.Context, companyID string) ([]Employee, error) {
	var approvers []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("role IN ?", []string{"manager", "owner"}).
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&approvers).Error
	return approvers, err
}

func (r *repository) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}
