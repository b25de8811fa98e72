package relay

import (
	"context"
	"fmt"

	"discord-audit-relay/models"

	"github.com/rs/zerolog"
)

// Outcome is what Dispatch did with an event.
type Outcome int

const (
	// OutcomeSkipped means the event was not eligible for the audit log.
	OutcomeSkipped Outcome = iota
	// OutcomeDropped means the audit channel could not be resolved.
	OutcomeDropped
	// OutcomePosted means a fresh entry was posted.
	OutcomePosted
	// OutcomeReplied means the entry was posted as a reply to an earlier one.
	OutcomeReplied
	// OutcomeFailed means posting to the audit channel failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDropped:
		return "dropped"
	case OutcomePosted:
		return "posted"
	case OutcomeReplied:
		return "replied"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AttachmentFetcher mirrors attachments of a message.
type AttachmentFetcher interface {
	Fetch(ctx context.Context, refs []models.AttachmentRef) []models.File
}

// Router turns message events into audit channel entries.
type Router struct {
	cfg        models.RelayConfig
	selfID     string
	sink       Sink
	fetcher    AttachmentFetcher
	correlator *Correlator
	observers  []Observer
	log        zerolog.Logger
}

// Option customizes a Router.
type Option func(*Router)

// WithObserver registers an observer that is called after every event.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		r.observers = append(r.observers, o)
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// NewRouter creates a Router writing to cfg.Relay.DestinationChannelID.
// selfID is the relay's own user ID, whose messages are never logged.
func NewRouter(cfg models.RelayConfig, selfID string, sink Sink, fetcher AttachmentFetcher, opts ...Option) *Router {
	r := &Router{
		cfg:        cfg,
		selfID:     selfID,
		sink:       sink,
		fetcher:    fetcher,
		correlator: NewCorrelator(sink, cfg.Relay.HistoryWindow),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch handles one event. Skipped and dropped events are not errors; an
// error is only returned when the audit channel rejected the post.
func (r *Router) Dispatch(ctx context.Context, ev models.Event) (Outcome, error) {
	outcome, entry, err := r.dispatch(ctx, ev)
	for _, o := range r.observers {
		o.Handled(ctx, ev, outcome, entry)
	}
	return outcome, err
}

func (r *Router) dispatch(ctx context.Context, ev models.Event) (Outcome, *models.LogEntry, error) {
	log := r.logger(ctx)

	subject := ev.Subject()
	if !IsEligible(r.cfg, r.selfID, subject) {
		return OutcomeSkipped, nil, nil
	}

	var text string
	switch ev.Kind {
	case models.EventCreated:
		text = CreatedLine(subject)
	case models.EventEdited:
		if ev.Before == nil {
			return OutcomeSkipped, nil, nil
		}
		text = EditedLine(ev.Before, subject)
	case models.EventDeleted:
		text = DeletedLine(subject)
	default:
		return OutcomeSkipped, nil, fmt.Errorf("unknown event kind %d", ev.Kind)
	}

	dest := r.cfg.Relay.DestinationChannelID
	ok, err := r.sink.ResolveChannel(ctx, dest)
	if err != nil || !ok {
		log.Warn().Err(err).Str("channel_id", dest).Str("message_id", subject.ID).
			Msg("Audit channel unavailable, dropping event")
		return OutcomeDropped, nil, nil
	}

	files := r.fetcher.Fetch(ctx, subject.Attachments)

	if ev.Kind == models.EventCreated {
		return r.send(ctx, dest, text, files)
	}

	ref, err := r.correlator.Find(ctx, dest, subject.ID)
	if err != nil {
		log.Warn().Err(err).Str("message_id", subject.ID).Msg("Correlation failed, posting unlinked")
	}
	if ref == nil {
		return r.send(ctx, dest, text, files)
	}

	entry, err := r.sink.Reply(ctx, ref, text, files)
	if err != nil {
		return OutcomeFailed, nil, fmt.Errorf("failed to reply to audit entry %s: %w", ref.ID, err)
	}
	log.Debug().Str("message_id", subject.ID).Str("reply_to", ref.ID).Msg("Audit entry linked")
	return OutcomeReplied, entry, nil
}

func (r *Router) send(ctx context.Context, dest, text string, files []models.File) (Outcome, *models.LogEntry, error) {
	entry, err := r.sink.Send(ctx, dest, text, files)
	if err != nil {
		return OutcomeFailed, nil, fmt.Errorf("failed to post audit entry to %s: %w", dest, err)
	}
	return OutcomePosted, entry, nil
}

func (r *Router) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &r.log
}
