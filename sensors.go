package main

import (
	"strings"

	"github.com/baharehpourmalayeri/fifty/models"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// sensorPage is one page of a user's sensors plus boundary flags.
type sensorPage struct {
	HasNext     bool
	HasPrevious bool
	Items       []models.Sensor
}

// sensorUpdate carries only the fields supplied by the caller; nil fields
// keep their stored value.
type sensorUpdate struct {
	Name        *string
	Model       *string
	Description *string
}

// listSensors returns one page of the owner's sensors, newest first. A query
// matches case-insensitively against name or model. Pages past the end are
// not an error; they come back empty with HasNext=false.
func listSensors(owner *models.User, page, pageSize int, query string) (*sensorPage, error) {
	q := db.Model(&models.Sensor{}).Where("owner_id = ?", owner.ID)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(model) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.Sensor
	// id tiebreak keeps pages stable when created_at collides
	if err := q.Order("created_at DESC, id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&items).Error; err != nil {
		return nil, err
	}
	return &sensorPage{
		HasNext:     int64(page*pageSize) < total,
		HasPrevious: page > 1,
		Items:       items,
	}, nil
}

func createSensor(owner *models.User, name, model string, description *string) (*models.Sensor, error) {
	sensor := models.Sensor{OwnerID: owner.ID, Name: name, Model: model, Description: description}
	if err := db.Create(&sensor).Error; err != nil {
		return nil, err
	}
	return &sensor, nil
}

// getOwnedSensor fetches a sensor scoped to its owner. A sensor that is
// absent and one owned by somebody else produce the same error, so callers
// cannot probe for foreign sensor ids.
func getOwnedSensor(tx *gorm.DB, ownerID, sensorID uint) (*models.Sensor, error) {
	var sensor models.Sensor
	if err := tx.Where("id = ? AND owner_id = ?", sensorID, ownerID).First(&sensor).Error; err != nil {
		return nil, errSensorNotFound
	}
	return &sensor, nil
}

// updateSensor applies the supplied deltas. Save writes every column, so
// updated_at is refreshed even when no field actually changed.
func updateSensor(owner *models.User, sensorID uint, upd sensorUpdate) (*models.Sensor, error) {
	sensor, err := getOwnedSensor(db, owner.ID, sensorID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		sensor.Name = *upd.Name
	}
	if upd.Model != nil {
		sensor.Model = *upd.Model
	}
	if upd.Description != nil {
		sensor.Description = upd.Description
	}
	if err := db.Save(sensor).Error; err != nil {
		return nil, err
	}
	return sensor, nil
}

// deleteSensor removes the sensor and all of its readings in one transaction
// so a failure cannot leave orphaned readings behind.
func deleteSensor(owner *models.User, sensorID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		sensor, err := getOwnedSensor(tx, owner.ID, sensorID)
		if err != nil {
			return err
		}
		if err := tx.Where("sensor_id = ?", sensor.ID).Delete(&models.Reading{}).Error; err != nil {
			return err
		}
		return tx.Delete(sensor).Error
	})
}
