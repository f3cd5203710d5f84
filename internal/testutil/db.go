// Package testutil provides an in-memory database and seed helpers for
// package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"maeum/backend/internal/database"
	"maeum/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// DB opens a fresh in-memory sqlite database with the full schema migrated.
// Each call gets its own named shared-cache database so gorm's pooled
// connections all see the same schema while tests stay isolated.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser creates a user account.
func SeedUser(t *testing.T, db *gorm.DB, nickname, role string) *models.User {
	t.Helper()

	user := models.User{
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", nickname, err)
	}
	return &user
}

// SeedApplication creates a submitted application for the user.
func SeedApplication(t *testing.T, db *gorm.DB, userID uint, name, gender string) *models.Application {
	t.Helper()

	app := models.Application{
		UserID:  userID,
		Name:    name,
		Age:     30,
		Gender:  gender,
		Hobbies: datatypes.NewJSONSlice([]string{"hiking"}),
		Status:  models.ApplicationSubmitted,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed application for user %d: %v", userID, err)
	}
	return &app
}
