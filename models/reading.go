package models

import "time"

// Reading is a single telemetry point. A sensor holds at most one reading per
// timestamp; the timestamp is supplied by the caller, not the server.
type Reading struct {
	ID          uint      `gorm:"primaryKey"`
	SensorID    uint      `gorm:"not null;uniqueIndex:idx_sensor_timestamp"`
	Timestamp   time.Time `gorm:"not null;uniqueIndex:idx_sensor_timestamp"`
	Temperature float64   `gorm:"not null"`
	Humidity    float64   `gorm:"not null"`
}
