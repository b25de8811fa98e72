package handlers

import (
	"discord-audit-relay/bot"
	"discord-audit-relay/utils"

	"github.com/bwmarrin/discordgo"
)

// commandPermissions maps command names to the level required to run them.
var commandPermissions = map[string]string{
	"relaystats": "admin",
	"ping":       "guest",
}

// CommandDispatcher is the central handler for all application command interactions.
// It performs permission checks and then dispatches the interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	auth := utils.NewAuth(b.Config.Commands.Auth)
	commandName := i.ApplicationCommandData().Name

	if requiredLevel, ok := commandPermissions[commandName]; ok {
		if !auth.CheckPermission(i, requiredLevel) {
			respondEphemeral(b, s, i, "🚫 You do not have permission to run this command.")
			return
		}
	}

	cmd, ok := b.Commands[commandName]
	if !ok {
		respondEphemeral(b, s, i, "🚫 Internal error: unknown command.")
		return
	}
	cmd.Handler(b, s, i)
}

func respondEphemeral(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.Log.Warn().Err(err).Msg("Error responding to interaction")
	}
}
