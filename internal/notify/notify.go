// Package notify defines the outbound notification port. Delivery is best
// effort everywhere in this system: senders bound their attempt and callers
// treat failure as non-fatal.
package notify

import (
	"context"
	"errors"
)

// ErrUnreachable marks a user that could not be delivered to (closed DMs,
// blocked bot, timeout). Callers log and move on; there are no retries.
var ErrUnreachable = errors.New("user unreachable")

// Notifier delivers a direct message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// Noop drops every notification. Used when no delivery channel is
// configured.
type Noop struct{}

func (Noop) Notify(ctx context.Context, userID, message string) error { return nil }
