package models

import "time"

// User is an account identity. Email and username are both unique across the
// whole system; passwords are stored as bcrypt hashes only.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	Email          string   `gorm:"size:255;not null;uniqueIndex"`
	Username       string   `gorm:"size:100;not null;uniqueIndex"`
	HashedPassword []byte   `gorm:"not null"`
	IsActive       bool     `gorm:"default:true;not null"`
	Sensors        []Sensor `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
