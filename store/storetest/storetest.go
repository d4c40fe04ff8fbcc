// Package storetest opens migrated SQLite stores and seeds fixtures for
// tests of packages built on the store.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"race-events/config"
	"race-events/driver"
	"race-events/models"
	"race-events/store"
)

var seq int64

func next() int64 { return atomic.AddInt64(&seq, 1) }

// Open returns a freshly migrated SQLite database that is closed with the test.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	cfg := config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "race-events.db"),
	}
	if err := driver.Migrate(cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := driver.ConnectDB(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func New(t testing.TB) *store.Store {
	t.Helper()
	return store.New(Open(t))
}

func Administrator(t testing.TB, s *store.Store) models.Administrator {
	t.Helper()
	n := next()
	a := models.Administrator{
		User: models.User{
			Email:        fmt.Sprintf("admin%d@example.com", n),
			PasswordHash: "x",
			FirstName:    "Ada",
			LastName:     fmt.Sprintf("Admin%d", n),
		},
		Department: "Race control",
	}
	if err := s.CreateAdministrator(context.Background(), &a); err != nil {
		t.Fatalf("create administrator: %v", err)
	}
	return a
}

func Participant(t testing.TB, s *store.Store) models.Participant {
	t.Helper()
	n := next()
	p := models.Participant{
		User: models.User{
			Email:        fmt.Sprintf("driver%d@example.com", n),
			PasswordHash: "x",
			FirstName:    "Dan",
			LastName:     fmt.Sprintf("Driver%d", n),
		},
		DriverLicense: fmt.Sprintf("DL-%d", n),
		DateOfBirth:   time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateParticipant(context.Background(), &p); err != nil {
		t.Fatalf("create participant: %v", err)
	}
	return p
}

// Car creates a car for participantID; mutate may adjust it before insert.
func Car(t testing.TB, s *store.Store, participantID int64, mutate func(*models.Car)) models.Car {
	t.Helper()
	c := models.Car{
		ParticipantID: participantID,
		Brand:         "Mazda",
		Model:         "MX-5",
		CarClass:      "B",
		Year:          2019,
		LicensePlate:  fmt.Sprintf("P%05d", next()),
	}
	if mutate != nil {
		mutate(&c)
	}
	if err := s.CreateCar(context.Background(), &c); err != nil {
		t.Fatalf("create car: %v", err)
	}
	return c
}

// Event creates an open-registration event owned by adminID.
func Event(t testing.TB, s *store.Store, adminID int64, mutate func(*models.Event)) models.Event {
	t.Helper()
	e := models.Event{
		Title:              fmt.Sprintf("Round %d", next()),
		Date:               time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Location:           "Kazan Ring",
		TrackType:          "asphalt",
		Type:               models.EventTypeSummer,
		MaxParticipants:    10,
		Status:             models.EventRegistrationOpen,
		CarTypeRequirement: models.CarTypeAny,
		AdministratorID:    adminID,
	}
	if mutate != nil {
		mutate(&e)
	}
	if err := s.CreateEvent(context.Background(), &e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func Championship(t testing.TB, s *store.Store, adminID int64, minPodiums int) models.Championship {
	t.Helper()
	c := models.Championship{
		Title:              fmt.Sprintf("Cup %d", next()),
		StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		RequiredCarClass:   "B",
		MinPodiumsRequired: minPodiums,
		AdministratorID:    adminID,
	}
	if err := s.CreateChampionship(context.Background(), &c); err != nil {
		t.Fatalf("create championship: %v", err)
	}
	return c
}

// Entry enters a new car of a new participant into the event with status.
func Entry(t testing.TB, s *store.Store, eventID int64, status models.ApplicationStatus) models.Application {
	t.Helper()
	p := Participant(t, s)
	c := Car(t, s, p.ID, nil)
	return Application(t, s, p.ID, eventID, c.ID, status)
}

func Application(t testing.TB, s *store.Store, participantID, eventID, carID int64, status models.ApplicationStatus) models.Application {
	t.Helper()
	a := models.Application{
		ParticipantID: participantID,
		EventID:       eventID,
		CarID:         carID,
		HelmetType:    models.HelmetOwn,
		TimerType:     models.TimerNone,
		Status:        status,
	}
	if err := s.CreateApplication(context.Background(), &a); err != nil {
		t.Fatalf("create application: %v", err)
	}
	return a
}

// Laps records times as laps 1..n of the application.
func Laps(t testing.TB, s *store.Store, applicationID int64, times ...time.Duration) {
	t.Helper()
	for i, d := range times {
		l := models.LapTime{ApplicationID: applicationID, LapNumber: i + 1, Time: d}
		if err := s.CreateLapTime(context.Background(), &l); err != nil {
			t.Fatalf("create lap %d: %v", i+1, err)
		}
	}
}
