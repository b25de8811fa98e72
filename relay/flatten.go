package relay

import (
	"fmt"
	"regexp"
	"strings"

	"discord-audit-relay/models"
)

// MaxEmbeds is how many embeds are summarized per message.
const MaxEmbeds = 3

// LinkPrefix is the fixed part of every message link. Existing audit history
// is searched for links built from it, so it must not change.
const LinkPrefix = "https://discord.com/channels/"

// mentionPattern matches @everyone, @here and user/role mentions by snowflake.
var mentionPattern = regexp.MustCompile(`@(everyone|here|[!&]?[0-9]{17,20})`)

// EscapeMentions inserts a zero-width space after every mention '@' so that
// the relayed text cannot ping anyone.
func EscapeMentions(text string) string {
	return mentionPattern.ReplaceAllString(text, "@\u200b$1")
}

// Flatten reduces the message content and its first three embeds to one line.
func Flatten(m *models.Message) string {
	text := m.Content + " " + formatEmbeds(m.Embeds, MaxEmbeds)
	return EscapeMentions(strings.TrimSpace(text))
}

func formatEmbeds(embeds []models.Embed, limit int) string {
	if len(embeds) > limit {
		embeds = embeds[:limit]
	}
	parts := make([]string, 0, len(embeds))
	for i, e := range embeds {
		parts = append(parts, fmt.Sprintf("[EMBED %d] %s %s", i+1, e.Title, e.Description))
	}
	return strings.Join(parts, " ")
}

// AuthorLabel renders "name" for migrated usernames and "name#1234" for legacy tags.
func AuthorLabel(m *models.Message) string {
	d := m.Author.Discriminator
	if d == "0" || d == "" {
		return m.Author.Name
	}
	return m.Author.Name + "#" + d
}

// MessageLink builds the deep link that doubles as the correlation key.
func MessageLink(m *models.Message) string {
	return LinkPrefix + m.GuildID + "/" + m.ChannelID + "/" + m.ID
}

// BaseLine is the "<author> | <link>" prefix shared by every audit line.
func BaseLine(m *models.Message) string {
	return AuthorLabel(m) + " | " + MessageLink(m)
}

// CreatedLine formats the audit line for a new message.
func CreatedLine(m *models.Message) string {
	return BaseLine(m) + " | " + Flatten(m)
}

// EditedLine formats the audit line for an edit.
func EditedLine(before, after *models.Message) string {
	return BaseLine(after) + " | BEFORE: " + Flatten(before) + " → AFTER: " + Flatten(after)
}

// DeletedLine formats the audit line for a deletion.
func DeletedLine(m *models.Message) string {
	return BaseLine(m) + " | DELETED: " + Flatten(m)
}
