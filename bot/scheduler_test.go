package bot

import (
	"strings"
	"testing"

	"discord-audit-relay/relay"
)

func TestFormatStats(t *testing.T) {
	t.Parallel()
	got := FormatStats(relay.StatsSnapshot{
		Created: 4, Edited: 2, Deleted: 1,
		Posted: 5, Replied: 2,
		Skipped: 3, Dropped: 1, Failed: 0,
	})
	for _, want := range []string{
		"4 created, 2 edited, 1 deleted",
		"5 posted, 2 replied",
		"skipped 3, dropped 1, failed 0",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatStats() = %q, missing %q", got, want)
		}
	}
}

func TestStatsWarningOnlyOnChange(t *testing.T) {
	t.Parallel()
	first := relay.StatsSnapshot{Created: 3, Posted: 2, Dropped: 1}

	msg, ok := statsWarning(relay.StatsSnapshot{}, first)
	if !ok {
		t.Fatal("first drop not reported")
	}
	if !strings.HasPrefix(msg, "1 dropped, 0 failed since last summary") {
		t.Errorf("statsWarning() = %q", msg)
	}

	quiet := relay.StatsSnapshot{Created: 5, Posted: 4, Dropped: 1}
	if msg, ok := statsWarning(first, quiet); ok {
		t.Errorf("unchanged drop count reported again: %q", msg)
	}

	failing := relay.StatsSnapshot{Created: 6, Posted: 4, Dropped: 1, Failed: 1}
	msg, ok = statsWarning(quiet, failing)
	if !ok || !strings.HasPrefix(msg, "0 dropped, 1 failed") {
		t.Errorf("statsWarning() = %q, %v", msg, ok)
	}
}
