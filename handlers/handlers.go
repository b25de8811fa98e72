package handlers

import (
	"discord-audit-relay/bot"

	"github.com/bwmarrin/discordgo"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(MessageCreateHandler(b))
	b.Session.AddHandler(MessageUpdateHandler(b))
	b.Session.AddHandler(MessageDeleteHandler(b))

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.Log.Info().
			Str("user", r.User.Username).
			Str("user_id", r.User.ID).
			Int("guilds", len(r.Guilds)).
			Msg("Logged in")
	})
}
