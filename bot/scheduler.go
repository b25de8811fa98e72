package bot

import (
	"fmt"

	"discord-audit-relay/relay"
	"discord-audit-relay/utils"

	"github.com/robfig/cron/v3"
)

const defaultStatsSchedule = "@hourly"

// startScheduler starts the periodic relay summary.
func (b *Bot) startScheduler() error {
	spec := b.Config.Relay.StatsSchedule
	if spec == "" {
		spec = defaultStatsSchedule
	}

	b.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	var last relay.StatsSnapshot
	_, err := b.cron.AddFunc(spec, func() {
		cur := b.Stats.Snapshot()
		reportStats(last, cur, b)
		last = cur
	})
	if err != nil {
		return fmt.Errorf("could not set up stats job %q: %w", spec, err)
	}
	b.cron.Start()
	b.Log.Info().Str("schedule", spec).Msg("Stats job scheduled")
	return nil
}

// stopScheduler stops the cron jobs.
func (b *Bot) stopScheduler() {
	if b.cron != nil {
		ctx := b.cron.Stop()
		<-ctx.Done()
		b.Log.Info().Msg("Scheduler stopped.")
	}
}

func reportStats(prev, s relay.StatsSnapshot, b *Bot) {
	b.Log.Info().
		Int64("created", s.Created).
		Int64("edited", s.Edited).
		Int64("deleted", s.Deleted).
		Int64("posted", s.Posted).
		Int64("replied", s.Replied).
		Int64("skipped", s.Skipped).
		Int64("dropped", s.Dropped).
		Int64("failed", s.Failed).
		Msg("Relay summary")
	if msg, ok := statsWarning(prev, s); ok {
		utils.Warn("relay", "Summary", msg)
	}
}

// statsWarning reports events dropped or failed since prev.
func statsWarning(prev, cur relay.StatsSnapshot) (string, bool) {
	dropped := cur.Dropped - prev.Dropped
	failed := cur.Failed - prev.Failed
	if dropped <= 0 && failed <= 0 {
		return "", false
	}
	return fmt.Sprintf("%d dropped, %d failed since last summary\n%s", dropped, failed, FormatStats(cur)), true
}

// FormatStats renders a snapshot for humans.
func FormatStats(s relay.StatsSnapshot) string {
	return fmt.Sprintf("events: %d created, %d edited, %d deleted\nentries: %d posted, %d replied\nskipped %d, dropped %d, failed %d",
		s.Created, s.Edited, s.Deleted, s.Posted, s.Replied, s.Skipped, s.Dropped, s.Failed)
}
