package relay

import (
	"context"
	"fmt"
	"strings"

	"discord-audit-relay/models"
)

// HistoryWindow is how many recent audit entries are searched for an earlier log line.
const HistoryWindow = 100

// Correlator finds the audit entry that first reported a message.
type Correlator struct {
	sink   Sink
	window int
}

// NewCorrelator creates a Correlator. A window <= 0 falls back to HistoryWindow.
func NewCorrelator(sink Sink, window int) *Correlator {
	if window <= 0 {
		window = HistoryWindow
	}
	return &Correlator{sink: sink, window: window}
}

// Find returns the newest entry in the window that links to messageID, or
// nil when none does. A miss is not an error.
func (c *Correlator) Find(ctx context.Context, channelID, messageID string) (*models.LogEntry, error) {
	history, err := c.sink.RecentHistory(ctx, channelID, c.window)
	if err != nil {
		return nil, fmt.Errorf("failed to read history of %s: %w", channelID, err)
	}
	if len(history) > c.window {
		history = history[:c.window]
	}
	for _, entry := range history {
		if entry != nil && ContainsMessageRef(entry.Content, messageID) {
			return entry, nil
		}
	}
	return nil, nil
}

// ContainsMessageRef reports whether text contains "/"+messageID not followed
// by another digit, so that id 123 does not match a link ending in /1234.
func ContainsMessageRef(text, messageID string) bool {
	if messageID == "" {
		return false
	}
	needle := "/" + messageID
	for {
		i := strings.Index(text, needle)
		if i < 0 {
			return false
		}
		end := i + len(needle)
		if end == len(text) || !isDigit(text[end]) {
			return true
		}
		text = text[i+1:]
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
