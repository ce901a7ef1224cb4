package main

import (
	"path/filepath"
	"testing"

	"github.com/baharehpourmalayeri/fifty/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-level db at a fresh file-backed sqlite
// database so service tests run without an external Postgres.
func setupTestDB(t *testing.T) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Sensor{}, &models.Reading{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db = conn
	jwtSecret = []byte("test-secret")
}

func mustRegister(t *testing.T, email, username string) *models.User {
	t.Helper()
	user, err := RegisterUser(email, username, "password1")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}
