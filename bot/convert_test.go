package bot

import (
	"testing"

	"discord-audit-relay/models"
	"discord-audit-relay/relay"

	"github.com/bwmarrin/discordgo"
)

const (
	testGuildID   = "1100000000000000001"
	testChannelID = "1200000000000000002"
)

func newTestState(t *testing.T) *discordgo.State {
	t.Helper()
	state := discordgo.NewState()
	err := state.GuildAdd(&discordgo.Guild{
		ID: testGuildID,
		Roles: []*discordgo.Role{
			{ID: "2000000000000000001", Name: "Bot 🤖"},
			{ID: "2000000000000000002", Name: "Member"},
		},
		Members: []*discordgo.Member{
			{User: &discordgo.User{ID: "cached"}, Roles: []string{"2000000000000000001"}},
		},
	})
	if err != nil {
		t.Fatalf("GuildAdd: %v", err)
	}
	return state
}

func TestConverterMessage(t *testing.T) {
	t.Parallel()
	conv := NewStateConverter(newTestState(t))

	got := conv.Message(&discordgo.Message{
		ID:        "1500000000000000005",
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Content:   "hello",
		Type:      discordgo.MessageTypeDefault,
		Author:    &discordgo.User{ID: "u1", Username: "alice", Discriminator: "0"},
		Member:    &discordgo.Member{Roles: []string{"2000000000000000002", "unknown-role"}},
		Embeds: []*discordgo.MessageEmbed{
			{Title: "T", Description: "D"},
			nil,
		},
		Attachments: []*discordgo.MessageAttachment{
			{URL: "https://cdn.discordapp.com/a.png", Filename: "a.png"},
		},
	})

	if got.ID != "1500000000000000005" || got.GuildID != testGuildID || got.ChannelID != testChannelID {
		t.Errorf("ids: got %+v", got)
	}
	if got.System {
		t.Error("default message marked as system")
	}
	want := models.Author{ID: "u1", Name: "alice", Discriminator: "0", RoleNames: []string{"Member"}}
	if got.Author.ID != want.ID || got.Author.Name != want.Name || got.Author.Discriminator != want.Discriminator {
		t.Errorf("author: got %+v, want %+v", got.Author, want)
	}
	if len(got.Author.RoleNames) != 1 || got.Author.RoleNames[0] != "Member" {
		t.Errorf("role names: got %v", got.Author.RoleNames)
	}
	if len(got.Embeds) != 1 || got.Embeds[0].Title != "T" || got.Embeds[0].Description != "D" {
		t.Errorf("embeds: got %+v", got.Embeds)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Filename != "a.png" {
		t.Errorf("attachments: got %+v", got.Attachments)
	}
}

func TestConverterRolesFromStateMember(t *testing.T) {
	t.Parallel()
	conv := NewStateConverter(newTestState(t))

	got := conv.Message(&discordgo.Message{
		ID:      "1",
		GuildID: testGuildID,
		Author:  &discordgo.User{ID: "cached", Username: "bob"},
	})
	if len(got.Author.RoleNames) != 1 || got.Author.RoleNames[0] != "Bot 🤖" {
		t.Errorf("role names: got %v", got.Author.RoleNames)
	}
}

func TestConverterRolesFallBackToREST(t *testing.T) {
	t.Parallel()
	calls := 0
	conv := &Converter{
		state: discordgo.NewState(),
		guildRoles: func(guildID string) ([]*discordgo.Role, error) {
			calls++
			return []*discordgo.Role{{ID: "r1", Name: "Staff"}, {ID: "r2", Name: "Bot 🤖"}}, nil
		},
	}
	got := conv.Message(&discordgo.Message{
		ID:      "1",
		GuildID: testGuildID,
		Author:  &discordgo.User{ID: "u1"},
		Member:  &discordgo.Member{Roles: []string{"r1", "r2"}},
	})
	if len(got.Author.RoleNames) != 2 || got.Author.RoleNames[1] != "Bot 🤖" {
		t.Errorf("role names: got %v", got.Author.RoleNames)
	}
	if calls != 1 {
		t.Errorf("guild roles fetched %d times, want 1", calls)
	}
}

func TestConverterSystemMessages(t *testing.T) {
	t.Parallel()
	conv := NewStateConverter(discordgo.NewState())
	tests := []struct {
		typ    discordgo.MessageType
		system bool
	}{
		{discordgo.MessageTypeDefault, false},
		{discordgo.MessageTypeReply, false},
		{discordgo.MessageTypeChatInputCommand, false},
		{discordgo.MessageTypeGuildMemberJoin, true},
		{discordgo.MessageTypeChannelPinnedMessage, true},
	}
	for _, tt := range tests {
		got := conv.Message(&discordgo.Message{ID: "1", Type: tt.typ})
		if got.System != tt.system {
			t.Errorf("type %d: got system=%v, want %v", tt.typ, got.System, tt.system)
		}
	}
}

func TestConverterNil(t *testing.T) {
	t.Parallel()
	if NewStateConverter(nil).Message(nil) != nil {
		t.Error("nil message should convert to nil")
	}
}

func TestMergeUpdatePartialPayload(t *testing.T) {
	t.Parallel()
	conv := NewStateConverter(discordgo.NewState())
	before := &models.Message{
		ID:        "1",
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Content:   "a",
		Author:    models.Author{ID: "u1", Name: "alice", Discriminator: "0"},
	}
	after := conv.MergeUpdate(before, &discordgo.Message{
		ID:      "1",
		Content: "b",
		Embeds:  []*discordgo.MessageEmbed{{Title: "unfurled"}},
	})
	if after.Author.Name != "alice" || after.GuildID != testGuildID || after.ChannelID != testChannelID {
		t.Errorf("merge: got %+v", after)
	}
	if after.Content != "b" || len(after.Embeds) != 1 {
		t.Errorf("merge lost new state: got %+v", after)
	}
}

func TestMergeUpdateEmbedOnlyPayload(t *testing.T) {
	t.Parallel()
	conv := NewStateConverter(discordgo.NewState())
	before := &models.Message{
		ID:          "10",
		GuildID:     "1",
		ChannelID:   "2",
		Content:     "hello https://example.com",
		Author:      models.Author{ID: "u1", Name: "alice", Discriminator: "0"},
		Attachments: []models.AttachmentRef{{URL: "https://cdn.discordapp.com/a.png", Filename: "a.png"}},
	}
	after := conv.MergeUpdate(before, &discordgo.Message{
		ID:     "10",
		Embeds: []*discordgo.MessageEmbed{{Title: "Preview"}},
	})

	if after.Content != before.Content {
		t.Errorf("content: got %q, want %q", after.Content, before.Content)
	}
	if len(after.Embeds) != 1 || after.Embeds[0].Title != "Preview" {
		t.Errorf("embeds: got %+v", after.Embeds)
	}
	if len(after.Attachments) != 1 || after.Attachments[0].Filename != "a.png" {
		t.Errorf("attachments: got %+v", after.Attachments)
	}

	want := "alice | https://discord.com/channels/1/2/10 | BEFORE: hello https://example.com → AFTER: hello https://example.com [EMBED 1] Preview"
	if got := relay.EditedLine(before, after); got != want {
		t.Errorf("EditedLine() = %q, want %q", got, want)
	}
}

func TestMergeUpdateClearedEmbeds(t *testing.T) {
	t.Parallel()
	conv := NewStateConverter(discordgo.NewState())
	before := &models.Message{
		ID:      "10",
		Content: "x",
		Embeds:  []models.Embed{{Title: "old"}},
	}
	after := conv.MergeUpdate(before, &discordgo.Message{
		ID:      "10",
		Content: "x",
		Embeds:  []*discordgo.MessageEmbed{},
	})
	if len(after.Embeds) != 0 {
		t.Errorf("explicitly cleared embeds restored: %+v", after.Embeds)
	}
}
