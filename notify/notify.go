// Package notify tells race control about application decisions and
// published standings.
package notify

//go:generate mockgen -destination=mock_notify/mock_notify.go -package=mock_notify race-events/notify Notifier

import (
	"context"

	"race-events/models"
)

// Notifier receives committed application status changes. Implementations
// are called after the write and their errors are only logged.
type Notifier interface {
	ApplicationChanged(ctx context.Context, app models.Application) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) ApplicationChanged(context.Context, models.Application) error { return nil }
