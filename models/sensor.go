package models

import "time"

// Sensor is a device registered by exactly one owner. Its readings are
// removed together with it.
type Sensor struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     uint      `gorm:"index;not null"`
	Name        string    `gorm:"size:100;not null"`
	Model       string    `gorm:"size:100;not null"`
	Description *string   `gorm:"size:512"`
	Readings    []Reading `gorm:"foreignKey:SensorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
