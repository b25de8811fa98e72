package handlers

import (
	"discord-audit-relay/bot"
	"discord-audit-relay/models"
	"discord-audit-relay/relay"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// CreateEvent converts a create event.
func CreateEvent(conv *bot.Converter, m *discordgo.MessageCreate) (models.Event, bool) {
	if m == nil || m.Message == nil {
		return models.Event{}, false
	}
	return models.Created(conv.Message(m.Message)), true
}

// UpdateEvent converts an edit event. Without the cached previous state
// there is nothing to compare against, so the event is ignored.
func UpdateEvent(conv *bot.Converter, m *discordgo.MessageUpdate) (models.Event, bool) {
	if m == nil || m.Message == nil || m.BeforeUpdate == nil {
		return models.Event{}, false
	}
	before := conv.Message(m.BeforeUpdate)
	return models.Edited(before, conv.MergeUpdate(before, m.Message)), true
}

// DeleteEvent converts a delete event using the cached last state of the message.
func DeleteEvent(conv *bot.Converter, m *discordgo.MessageDelete) (models.Event, bool) {
	if m == nil || m.BeforeDelete == nil {
		return models.Event{}, false
	}
	last := conv.Message(m.BeforeDelete)
	if last.GuildID == "" && m.Message != nil {
		last.GuildID = m.GuildID
	}
	return models.Deleted(last), true
}

// dispatch hands one event to the router. discordgo runs every handler in
// its own goroutine, so events are processed concurrently.
func dispatch(b *bot.Bot, ev models.Event) {
	log := b.Log.With().
		Str("trace_id", uuid.NewString()).
		Str("event", ev.Kind.String()).
		Str("message_id", ev.Subject().ID).
		Logger()
	ctx := log.WithContext(b.Context())

	// Handlers are registered before the session opens; the router only
	// exists once the relay's own user ID is known.
	router := b.Router()
	if router == nil {
		log.Warn().Msg("Router not ready, dropping event")
		b.Stats.Handled(ctx, ev, relay.OutcomeDropped, nil)
		return
	}

	outcome, err := router.Dispatch(ctx, ev)
	if err != nil {
		log.Error().Err(err).Msg("Failed to relay event")
		return
	}
	log.Debug().Stringer("outcome", outcome).Msg("Event handled")
}

// MessageCreateHandler handles Discord message create events.
func MessageCreateHandler(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if ev, ok := CreateEvent(b.Converter, m); ok {
			dispatch(b, ev)
		}
	}
}

// MessageUpdateHandler handles Discord message edit events.
func MessageUpdateHandler(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageUpdate) {
	return func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		ev, ok := UpdateEvent(b.Converter, m)
		if !ok {
			b.Log.Debug().Str("message_id", m.ID).Msg("Edit of uncached message, skipping")
			return
		}
		dispatch(b, ev)
	}
}

// MessageDeleteHandler handles Discord message delete events.
func MessageDeleteHandler(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageDelete) {
	return func(s *discordgo.Session, m *discordgo.MessageDelete) {
		ev, ok := DeleteEvent(b.Converter, m)
		if !ok {
			b.Log.Debug().Str("message_id", m.ID).Msg("Delete of uncached message, skipping")
			return
		}
		dispatch(b, ev)
	}
}
