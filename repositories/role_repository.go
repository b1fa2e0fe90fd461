package repositories

import (
	"taskmanager/models"

	"gorm.io/gorm"
)

// RoleRepository interface defines Role lookup operations. Roles are
// immutable reference data seeded at startup.
type RoleRepository interface {
	FindByName(name string) (*models.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository instance
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// FindByName finds Role by its name token
func (r *roleRepository) FindByName(name string) (*models.Role, error) {
	var role models.Role
	result := r.db.Where("name = ?", name).First(&role)
	if result.Error != nil {
		return nil, result.Error
	}
	return &role, nil
}
