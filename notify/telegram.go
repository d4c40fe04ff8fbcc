package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"race-events/models"
	"race-events/utils"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts notifications to one race-control chat.
type Telegram struct {
	bot    sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot")
	}
	bot.Debug = false
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) ApplicationChanged(ctx context.Context, app models.Application) error {
	return t.send(ctx, applicationMessage(app))
}

// PublishStandings posts the podium of freshly computed standings.
func (t *Telegram) PublishStandings(ctx context.Context, st models.EventStandings) error {
	return t.send(ctx, standingsMessage(st))
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return errors.Wrap(err, "telegram send")
	}
	return nil
}

func applicationMessage(app models.Application) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Application #%d: %s", app.ID, app.Status)
	if app.Event != nil {
		fmt.Fprintf(&b, "\nEvent: %s (%s)", app.Event.Title, app.Event.Date.Format("2006-01-02"))
	}
	if app.Participant != nil {
		fmt.Fprintf(&b, "\nDriver: %s, best lap %s", app.Participant.FullName(), lapLabel(app.Participant))
	}
	if app.Car != nil {
		fmt.Fprintf(&b, "\nCar: %s", app.Car.Label())
	}
	return b.String()
}

func standingsMessage(st models.EventStandings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results: %s, %s", st.EventTitle, st.EventLocation)
	for _, s := range st.Podium {
		fmt.Fprintf(&b, "\n%d. %s, %s, total %s, best %s", s.Position, s.ParticipantName, s.CarInfo,
			s.TotalTime, s.BestLapTime)
	}
	if len(st.Results) > len(st.Podium) {
		fmt.Fprintf(&b, "\n%d classified", len(st.Results))
	}
	return b.String()
}

// lapLabel renders an optional career best lap.
func lapLabel(p *models.Participant) string {
	if p == nil || p.BestLapTime == nil {
		return "-"
	}
	return utils.FormatLapTime(*p.BestLapTime)
}
