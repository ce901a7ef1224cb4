package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/baharehpourmalayeri/fifty/models"
)

func mustCreateSensor(t *testing.T, owner *models.User, name, model string) *models.Sensor {
	t.Helper()
	sensor, err := createSensor(owner, name, model, nil)
	if err != nil {
		t.Fatalf("create sensor: %v", err)
	}
	return sensor
}

func TestOwnershipIsolation(t *testing.T) {
	setupTestDB(t)
	alice := mustRegister(t, "alice@example.com", "alice")
	bob := mustRegister(t, "bob@example.com", "bob")
	sensor := mustCreateSensor(t, alice, "Greenhouse Temp Sensor", "GT-1000")

	if _, err := getOwnedSensor(db, bob.ID, sensor.ID); !errors.Is(err, errSensorNotFound) {
		t.Fatalf("expected not-found for foreign get, got %v", err)
	}
	name := "hijacked"
	if _, err := updateSensor(bob, sensor.ID, sensorUpdate{Name: &name}); !errors.Is(err, errSensorNotFound) {
		t.Fatalf("expected not-found for foreign update, got %v", err)
	}
	if err := deleteSensor(bob, sensor.ID); !errors.Is(err, errSensorNotFound) {
		t.Fatalf("expected not-found for foreign delete, got %v", err)
	}

	// the owner still sees it untouched
	got, err := getOwnedSensor(db, alice.ID, sensor.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Name != "Greenhouse Temp Sensor" {
		t.Fatalf("sensor mutated by foreign update: %q", got.Name)
	}
}

func TestListSensorsPagination(t *testing.T) {
	setupTestDB(t)
	user := mustRegister(t, "alice@example.com", "alice")
	for i := 0; i < 25; i++ {
		mustCreateSensor(t, user, fmt.Sprintf("sensor-%02d", i), "M-1")
	}

	page1, err := listSensors(user, 1, 10, "")
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Items) != 10 || page1.HasPrevious || !page1.HasNext {
		t.Fatalf("page 1: len=%d prev=%v next=%v", len(page1.Items), page1.HasPrevious, page1.HasNext)
	}
	// newest first
	if page1.Items[0].ID < page1.Items[9].ID {
		t.Fatalf("page 1 not in descending creation order: %d .. %d", page1.Items[0].ID, page1.Items[9].ID)
	}

	page3, err := listSensors(user, 3, 10, "")
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Items) != 5 || !page3.HasPrevious || page3.HasNext {
		t.Fatalf("page 3: len=%d prev=%v next=%v", len(page3.Items), page3.HasPrevious, page3.HasNext)
	}

	// pages past the end are empty, not an error
	page4, err := listSensors(user, 4, 10, "")
	if err != nil {
		t.Fatalf("page 4: %v", err)
	}
	if len(page4.Items) != 0 || page4.HasNext {
		t.Fatalf("page 4: len=%d next=%v", len(page4.Items), page4.HasNext)
	}
}

func TestListSensorsQuery(t *testing.T) {
	setupTestDB(t)
	alice := mustRegister(t, "alice@example.com", "alice")
	bob := mustRegister(t, "bob@example.com", "bob")
	mustCreateSensor(t, alice, "Greenhouse Temp Sensor", "GT-1000")
	mustCreateSensor(t, alice, "Humidity Probe", "HP-2")
	mustCreateSensor(t, bob, "Warehouse Temp", "WT-9")

	// substring match is case-insensitive across name and model
	res, err := listSensors(alice, 1, 10, "temp")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Name != "Greenhouse Temp Sensor" {
		t.Fatalf("query 'temp': got %d items", len(res.Items))
	}

	res, err = listSensors(alice, 1, 10, "gt-10")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Model != "GT-1000" {
		t.Fatalf("query 'gt-10' should match the model, got %d items", len(res.Items))
	}

	res, err = listSensors(alice, 1, 10, "warehouse")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatal("query leaked another owner's sensor")
	}
}

func TestUpdateSensorPartial(t *testing.T) {
	setupTestDB(t)
	user := mustRegister(t, "alice@example.com", "alice")
	desc := "Located in greenhouse section A"
	sensor, err := createSensor(user, "Greenhouse Temp Sensor", "GT-1000", &desc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := sensor.UpdatedAt

	time.Sleep(20 * time.Millisecond)
	name := "Greenhouse Temp Sensor #1"
	updated, err := updateSensor(user, sensor.ID, sensorUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Model != "GT-1000" {
		t.Fatalf("omitted model was clobbered: %q", updated.Model)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Fatal("omitted description was clobbered")
	}
	if !updated.UpdatedAt.After(before) {
		t.Fatal("updated_at not refreshed")
	}

	// a no-field update still refreshes updated_at
	time.Sleep(20 * time.Millisecond)
	touched, err := updateSensor(user, sensor.ID, sensorUpdate{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !touched.UpdatedAt.After(updated.UpdatedAt) {
		t.Fatal("updated_at not refreshed on empty update")
	}
}

func TestDeleteSensorCascade(t *testing.T) {
	setupTestDB(t)
	user := mustRegister(t, "alice@example.com", "alice")
	sensor := mustCreateSensor(t, user, "Greenhouse Temp Sensor", "GT-1000")
	base := time.Date(2025, 10, 17, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := createReading(user, sensor.ID, 23.5, 56.2, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("reading %d: %v", i, err)
		}
	}

	if err := deleteSensor(user, sensor.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := db.Model(&models.Reading{}).Where("sensor_id = ?", sensor.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d orphaned readings left behind", count)
	}
	if _, err := listReadings(user, sensor.ID, nil, nil); !errors.Is(err, errSensorNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}
