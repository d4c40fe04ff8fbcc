package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"race-events/models"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegramApplicationChanged(t *testing.T) {
	best := 75 * time.Second
	app := models.Application{
		ID:     7,
		Status: models.ApplicationApproved,
		Event:  &models.Event{Title: "Winter Sprint", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		Participant: &models.Participant{
			User:        models.User{FirstName: "Ivan", LastName: "Petrov"},
			BestLapTime: &best,
		},
		Car: &models.Car{Brand: "Subaru", Model: "WRX", LicensePlate: "A123BC"},
	}
	f := &fakeSender{}
	tg := &Telegram{bot: f, chatID: 42}

	if err := tg.ApplicationChanged(context.Background(), app); err != nil {
		t.Fatal(err)
	}
	if len(f.sent) != 1 {
		t.Fatalf("sent %d messages", len(f.sent))
	}
	msg := f.sent[0].(tgbotapi.MessageConfig)
	if msg.ChatID != 42 {
		t.Errorf("chat = %d", msg.ChatID)
	}
	for _, want := range []string{"#7: APPROVED", "Winter Sprint (2026-02-01)", "Petrov Ivan", "01:15.0", "Subaru WRX (A123BC)"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("message %q does not contain %q", msg.Text, want)
		}
	}
}

func TestTelegramWrapsSendError(t *testing.T) {
	tg := &Telegram{bot: &fakeSender{err: errors.New("network down")}, chatID: 1}
	err := tg.PublishStandings(context.Background(), models.EventStandings{EventTitle: "R1"})
	if err == nil || !strings.Contains(err.Error(), "network down") {
		t.Fatalf("err = %v", err)
	}
}

func TestStandingsMessage(t *testing.T) {
	st := models.EventStandings{
		EventTitle:    "Summer Cup",
		EventLocation: "Moscow Raceway",
		Podium: []models.Standing{
			{Position: 1, ParticipantName: "B", CarInfo: "car b", TotalTime: "01:15.0", BestLapTime: "01:15.0"},
		},
		Results: []models.Standing{{Position: 1}, {Position: 4}},
	}
	got := standingsMessage(st)
	for _, want := range []string{"Summer Cup, Moscow Raceway", "1. B, car b, total 01:15.0", "2 classified"} {
		if !strings.Contains(got, want) {
			t.Errorf("message %q does not contain %q", got, want)
		}
	}
}
