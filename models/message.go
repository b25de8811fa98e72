package models

// Author identifies who wrote a message.
type Author struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Discriminator string   `json:"discriminator"` // "0" for migrated usernames
	RoleNames     []string `json:"role_names"`
	Bot           bool     `json:"bot"`
}

// Embed is the part of a rich embed that ends up in the audit line.
type Embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AttachmentRef points at an attachment that can be downloaded again.
type AttachmentRef struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Message is a platform-neutral snapshot of a guild message.
type Message struct {
	ID          string          `json:"id"`
	GuildID     string          `json:"guild_id"` // empty for direct messages
	ChannelID   string          `json:"channel_id"`
	Content     string          `json:"content"`
	Author      Author          `json:"author"`
	Embeds      []Embed         `json:"embeds"`
	Attachments []AttachmentRef `json:"attachments"`
	System      bool            `json:"system"` // joins, pins and other platform notices
}

// LogEntry is a message already posted to the audit channel.
type LogEntry struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// File is a mirrored attachment ready to be uploaded.
type File struct {
	Name string
	Data []byte
}
