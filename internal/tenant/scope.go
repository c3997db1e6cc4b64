package tenant

import "gorm.io/gorm"

// Scope restricts any gorm query to a single company. Every repository read
// goes through this; tenant data must never cross company boundaries.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
