package main

import (
	"log"
	"os"
	"strings"

	"github.com/baharehpourmalayeri/fifty/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		migrateModels(db)
	}
}

// migrateModels migrates each model individually so a failure on one doesn't
// block the others. Users must come first so the sensors FK can be applied.
func migrateModels(db *gorm.DB) {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(&models.Sensor{}); err != nil {
		log.Printf("migration warning (sensors): %v", err)
	}
	if err := db.AutoMigrate(&models.Reading{}); err != nil {
		log.Printf("migration warning (readings): %v", err)
	}
}
