package relay

import (
	"context"

	"discord-audit-relay/models"
)

// Sink is the destination side of the relay: the audit channel and its history.
type Sink interface {
	// ResolveChannel reports whether the channel is currently reachable.
	ResolveChannel(ctx context.Context, channelID string) (bool, error)

	// Send posts a fresh entry.
	Send(ctx context.Context, channelID, text string, files []models.File) (*models.LogEntry, error)

	// Reply posts an entry as a reply to target.
	Reply(ctx context.Context, target *models.LogEntry, text string, files []models.File) (*models.LogEntry, error)

	// RecentHistory returns up to limit entries, newest first.
	RecentHistory(ctx context.Context, channelID string, limit int) ([]*models.LogEntry, error)
}

// Observer is notified once an event has been handled. entry is nil unless
// the outcome is OutcomePosted or OutcomeReplied.
type Observer interface {
	Handled(ctx context.Context, ev models.Event, outcome Outcome, entry *models.LogEntry)
}
