package bot

import (
	"bytes"
	"context"
	"fmt"

	"discord-audit-relay/models"

	"github.com/bwmarrin/discordgo"
)

// maxContentLength is Discord's limit for message content, in characters.
const maxContentLength = 2000

// DiscordSink posts audit entries through a discordgo session.
type DiscordSink struct {
	session *discordgo.Session
}

// NewDiscordSink creates a sink for the session.
func NewDiscordSink(s *discordgo.Session) *DiscordSink {
	return &DiscordSink{session: s}
}

// ResolveChannel checks the state cache first and falls back to the API.
func (d *DiscordSink) ResolveChannel(ctx context.Context, channelID string) (bool, error) {
	if channelID == "" {
		return false, nil
	}
	if ch, err := d.session.State.Channel(channelID); err == nil && ch != nil {
		return true, nil
	}
	ch, err := d.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
	}
	return ch != nil, nil
}

// Send posts a fresh message.
func (d *DiscordSink) Send(ctx context.Context, channelID, text string, files []models.File) (*models.LogEntry, error) {
	return d.post(ctx, channelID, text, files, nil)
}

// Reply posts a message that references target.
func (d *DiscordSink) Reply(ctx context.Context, target *models.LogEntry, text string, files []models.File) (*models.LogEntry, error) {
	return d.post(ctx, target.ChannelID, text, files, replyReference(target))
}

// replyReference points at target. If the entry was deleted after it was
// found, Discord posts the message without the reply instead of rejecting it.
func replyReference(target *models.LogEntry) *discordgo.MessageReference {
	failIfNotExists := false
	return &discordgo.MessageReference{
		MessageID:       target.ID,
		ChannelID:       target.ChannelID,
		FailIfNotExists: &failIfNotExists,
	}
}

// RecentHistory returns the newest messages of the channel. Discord caps a
// single page at 100 messages.
func (d *DiscordSink) RecentHistory(ctx context.Context, channelID string, limit int) ([]*models.LogEntry, error) {
	msgs, err := d.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages of %s: %w", channelID, err)
	}
	entries := make([]*models.LogEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, toLogEntry(m))
	}
	return entries, nil
}

func (d *DiscordSink) post(ctx context.Context, channelID, text string, files []models.File, ref *discordgo.MessageReference) (*models.LogEntry, error) {
	msg, err := d.session.ChannelMessageSendComplex(channelID, newMessageSend(text, files, ref), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to %s: %w", channelID, err)
	}
	return toLogEntry(msg), nil
}

// newMessageSend builds the outgoing payload. Mentions are already escaped
// in the text; the empty parse list also stops any that slip through.
func newMessageSend(text string, files []models.File, ref *discordgo.MessageReference) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content:   truncate(text, maxContentLength),
		Reference: ref,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}
	for _, f := range files {
		send.Files = append(send.Files, &discordgo.File{
			Name:   f.Name,
			Reader: bytes.NewReader(f.Data),
		})
	}
	return send
}

// truncate cuts text to at most n characters. The link sits at the start of
// every line, so the correlation key survives.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-1]) + "…"
}

func toLogEntry(m *discordgo.Message) *models.LogEntry {
	if m == nil {
		return nil
	}
	return &models.LogEntry{ID: m.ID, ChannelID: m.ChannelID, Content: m.Content}
}
