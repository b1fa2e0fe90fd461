package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	DueDate     *time.Time
	Completed   bool `gorm:"not null;default:false"`
	// CreatorName is a snapshot of the creating user's display name taken at
	// creation time. Renaming a user does not change past tasks.
	CreatorName string `gorm:"not null"`
	OwnerID     *uint
	Owner       *User `gorm:"foreignKey:OwnerID"`
}
