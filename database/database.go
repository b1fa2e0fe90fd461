package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"taskmanager/config"
	"taskmanager/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB() *gorm.DB {
	dsn := config.AppConfig.DatabaseURL

	// GORM logger configuration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	if err := Migrate(db); err != nil {
		panic(fmt.Errorf("failed to migrate database: %w", err))
	}

	// Seed roles and the initial admin account if they don't exist
	SeedInitialData(db)

	return db
}

// Migrate applies the schema for all persisted models, join tables included.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Role{}, &models.Task{})
}

// SeedInitialData seeds the fixed role set and an initial admin user. The
// user-provisioning service requires the "USER" role row to exist, so this
// must run before the service handles any sign-up.
func SeedInitialData(db *gorm.DB) {
	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		var existing models.Role
		err := db.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.Role{Name: name}).Error; err != nil {
				log.Printf("Failed to seed role %s: %v\n", name, err)
			} else {
				log.Printf("Seeded role: %s\n", name)
			}
		} else if err != nil {
			log.Printf("Error checking for role %s: %v\n", name, err)
		}
	}

	// Create an initial admin user if none exists
	var adminUser models.User
	err := db.Where("email = ?", config.AppConfig.AdminEmail).First(&adminUser).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash initial admin password: %v\n", err)
		return
	}
	adminUser = models.User{
		Email:    config.AppConfig.AdminEmail,
		Name:     config.AppConfig.AdminName,
		Password: string(hashedPassword),
		Active:   1,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		log.Printf("Failed to create initial admin user: %v\n", err)
		return
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err == nil {
		if err := db.Model(&adminUser).Association("Roles").Append(&adminRole); err != nil {
			log.Printf("Failed to assign admin role to initial admin user: %v\n", err)
		} else {
			log.Println("Created initial admin user and assigned admin role.")
		}
	} else {
		log.Println("Created initial admin user, but failed to find admin role to assign.")
	}
}
