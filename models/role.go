package models

import "gorm.io/gorm"

// Role names form a fixed enumerated set; rows are seeded at startup and
// looked up by name.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Role struct {
	gorm.Model
	Name  string `gorm:"unique;not null"`
	Users []User `gorm:"many2many:user_roles;"` // Many-to-Many relationship back to User
}
