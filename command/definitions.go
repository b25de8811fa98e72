package command

import (
	"fmt"

	"discord-audit-relay/bot"

	"github.com/bwmarrin/discordgo"
)

// All returns every slash command the relay registers.
func All() []bot.Command {
	return []bot.Command{
		&PingCommand{},
		&RelayStatsCommand{},
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}

// Handler responds to /ping.
func (c *PingCommand) Handler(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	respond(b, s, i, "Pong!")
}

// RelayStatsCommand defines the /relaystats command.
type RelayStatsCommand struct{}

// Definition returns the application command definition.
func (c *RelayStatsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "relaystats",
		Description: "Show audit relay counters since startup",
	}
}

// Handler responds with the current counters.
func (c *RelayStatsCommand) Handler(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	content := fmt.Sprintf("Audit channel: <#%s>\n%s", b.Config.Relay.DestinationChannelID, bot.FormatStats(b.Stats.Snapshot()))
	respond(b, s, i, content)
}

func respond(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.Log.Warn().Err(err).Str("command", i.ApplicationCommandData().Name).Msg("Error responding to command")
	}
}
