package store

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs migrations.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store.Open: empty DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store.Open: connect postgres: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema. Models are migrated individually so a failure
// on one does not block the others.
func Migrate(db *gorm.DB) error {
	for _, model := range []interface{}{&User{}, &Payment{}, &Upload{}} {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("store.Migrate: %T: %w", model, err)
		}
	}
	return nil
}

// SeedAdmin creates the admin user if it does not exist yet. Used by the
// migrate command for fresh databases.
func SeedAdmin(db *gorm.DB, password string) error {
	var count int64
	db.Model(&User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("store.SeedAdmin: hash password: %w", err)
	}
	admin := User{Username: "admin", HashedPassword: hashed}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("store.SeedAdmin: create admin: %w", err)
	}
	return nil
}
