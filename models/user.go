package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email    string `gorm:"unique;not null"`
	Name     string `gorm:"not null"`
	Password string `gorm:"not null" json:"-"` // Don't expose password hash
	Active   int    `gorm:"not null;default:1"`
	Roles    []Role `gorm:"many2many:user_roles;"` // Many-to-Many relationship with Role
}

// RoleNames returns the names of all roles assigned to the user.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}
