package bot

import (
	"discord-audit-relay/models"

	"github.com/bwmarrin/discordgo"
)

// Converter turns discordgo messages into relay messages, resolving role IDs
// to role names through the session state.
type Converter struct {
	state *discordgo.State
	// guildRoles is used when a role is missing from the state cache.
	guildRoles func(guildID string) ([]*discordgo.Role, error)
}

// NewConverter creates a Converter backed by the session's state and REST API.
func NewConverter(s *discordgo.Session) *Converter {
	return &Converter{
		state: s.State,
		guildRoles: func(guildID string) ([]*discordgo.Role, error) {
			return s.GuildRoles(guildID)
		},
	}
}

// NewStateConverter creates a Converter that only consults the state cache.
func NewStateConverter(state *discordgo.State) *Converter {
	return &Converter{state: state}
}

// userMessageTypes are the message types that are not platform notices.
var userMessageTypes = map[discordgo.MessageType]bool{
	discordgo.MessageTypeDefault:              true,
	discordgo.MessageTypeReply:                true,
	discordgo.MessageTypeChatInputCommand:     true,
	discordgo.MessageTypeContextMenuCommand:   true,
	discordgo.MessageTypeThreadStarterMessage: true,
}

// Message converts m. It returns nil for a nil message.
func (c *Converter) Message(m *discordgo.Message) *models.Message {
	if m == nil {
		return nil
	}
	msg := &models.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		System:    !userMessageTypes[m.Type],
	}
	if m.Author != nil {
		msg.Author = models.Author{
			ID:            m.Author.ID,
			Name:          m.Author.Username,
			Discriminator: m.Author.Discriminator,
			Bot:           m.Author.Bot,
			RoleNames:     c.roleNames(m.GuildID, m.Author.ID, m.Member),
		}
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		msg.Embeds = append(msg.Embeds, models.Embed{Title: e.Title, Description: e.Description})
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, models.AttachmentRef{URL: a.URL, Filename: a.Filename})
	}
	return msg
}

// MergeUpdate converts an edited message. Update payloads can be partial
// (an embed unfurl carries only the embeds), so every field the payload
// omits falls back to the previous state, the same way State.MessageAdd
// merges updates.
func (c *Converter) MergeUpdate(before *models.Message, m *discordgo.Message) *models.Message {
	after := c.Message(m)
	if after == nil || before == nil {
		return after
	}
	if m.Author == nil {
		after.Author = before.Author
	}
	if m.Content == "" {
		after.Content = before.Content
	}
	if m.Embeds == nil {
		after.Embeds = before.Embeds
	}
	if m.Attachments == nil {
		after.Attachments = before.Attachments
	}
	if after.GuildID == "" {
		after.GuildID = before.GuildID
	}
	if after.ChannelID == "" {
		after.ChannelID = before.ChannelID
	}
	return after
}

func (c *Converter) roleNames(guildID, userID string, member *discordgo.Member) []string {
	if guildID == "" {
		return nil
	}
	var roleIDs []string
	if member != nil {
		roleIDs = member.Roles
	} else if c.state != nil {
		if cached, err := c.state.Member(guildID, userID); err == nil {
			roleIDs = cached.Roles
		}
	}
	if len(roleIDs) == 0 {
		return nil
	}

	names := make([]string, 0, len(roleIDs))
	var fetched map[string]string
	for _, id := range roleIDs {
		if c.state != nil {
			if role, err := c.state.Role(guildID, id); err == nil {
				names = append(names, role.Name)
				continue
			}
		}
		if fetched == nil {
			fetched = c.fetchRoleNames(guildID)
		}
		if name, ok := fetched[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (c *Converter) fetchRoleNames(guildID string) map[string]string {
	out := make(map[string]string)
	if c.guildRoles == nil {
		return out
	}
	roles, err := c.guildRoles(guildID)
	if err != nil {
		return out
	}
	for _, r := range roles {
		out[r.ID] = r.Name
	}
	return out
}
