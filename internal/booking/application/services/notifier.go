// Package services holds the booking-side collaborators: outbound
// notifications and calendar reconciliation.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/stagehandhq/stagehand/internal/booking/domain"
)

// Notification carries the identities the external notifier needs. OldStatus
// is empty for the creation notification.
type Notification struct {
	BookingID uuid.UUID
	ArtistID  uuid.UUID
	VenueID   uuid.UUID
	EventDate time.Time
	OldStatus domain.Status
	NewStatus domain.Status
}

// Notifier delivers booking lifecycle notifications to an external channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log. It is the default when no
// external channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(_ context.Context, notification Notification) error {
	n.logger.Info("booking notification",
		"booking_id", notification.BookingID,
		"artist_id", notification.ArtistID,
		"venue_id", notification.VenueID,
		"event_date", notification.EventDate.Format("2006-01-02"),
		"old_status", string(notification.OldStatus),
		"new_status", string(notification.NewStatus),
	)
	return nil
}

// CircuitBreakerNotifier wraps a Notifier with a circuit breaker so a
// flapping notification channel cannot stall booking transitions.
type CircuitBreakerNotifier struct {
	inner   Notifier
	breaker *gobreaker.CircuitBreaker[any]
}

// NewCircuitBreakerNotifier wraps inner with a breaker that opens after
// three consecutive failures and probes again after 30 seconds.
func NewCircuitBreakerNotifier(inner Notifier, logger *slog.Logger) *CircuitBreakerNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:    "booking-notifier",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("notifier circuit state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &CircuitBreakerNotifier{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// Notify delivers through the breaker. When the circuit is open the
// notification is dropped with ErrOpenState.
func (n *CircuitBreakerNotifier) Notify(ctx context.Context, notification Notification) error {
	_, err := n.breaker.Execute(func() (any, error) {
		return nil, n.inner.Notify(ctx, notification)
	})
	return err
}
