package main

import (
	"time"

	"github.com/baharehpourmalayeri/fifty/models"
)

// listReadings returns the sensor's readings newest first, optionally bounded
// by an inclusive timestamp range. Ownership is resolved exactly like
// getOwnedSensor; an empty range is an empty slice, not an error.
func listReadings(owner *models.User, sensorID uint, from, to *time.Time) ([]models.Reading, error) {
	sensor, err := getOwnedSensor(db, owner.ID, sensorID)
	if err != nil {
		return nil, err
	}
	q := db.Where("sensor_id = ?", sensor.ID)
	if from != nil {
		q = q.Where("timestamp >= ?", *from)
	}
	if to != nil {
		q = q.Where("timestamp <= ?", *to)
	}
	var readings []models.Reading
	if err := q.Order("timestamp DESC").Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

// createReading appends one telemetry point. The (sensor_id, timestamp)
// unique index is the source of truth for conflicts; no check-then-act.
func createReading(owner *models.User, sensorID uint, temperature, humidity float64, timestamp time.Time) (*models.Reading, error) {
	sensor, err := getOwnedSensor(db, owner.ID, sensorID)
	if err != nil {
		return nil, err
	}
	reading := models.Reading{SensorID: sensor.ID, Temperature: temperature, Humidity: humidity, Timestamp: timestamp}
	if err := db.Create(&reading).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, errReadingConflict
		}
		return nil, err
	}
	return &reading, nil
}
