package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"discord-audit-relay/models"
)

const (
	testGuildID   = "1100000000000000001"
	testChannelID = "1200000000000000002"
	testAuditID   = "1378860563748098048"
	testSelfID    = "1300000000000000003"
)

type sentPost struct {
	ChannelID string
	Text      string
	Files     []models.File
	ReplyTo   string
}

// fakeSink records posts and serves a fixed history, newest first.
type fakeSink struct {
	mu         sync.Mutex
	reachable  bool
	resolveErr error
	history    []*models.LogEntry
	historyErr error
	sendErr    error
	posts      []sentPost
	historyLim int
	nextID     int
}

func newFakeSink() *fakeSink {
	return &fakeSink{reachable: true}
}

func (f *fakeSink) ResolveChannel(_ context.Context, _ string) (bool, error) {
	return f.reachable, f.resolveErr
}

func (f *fakeSink) Send(_ context.Context, channelID, text string, files []models.File) (*models.LogEntry, error) {
	return f.post(channelID, text, files, "")
}

func (f *fakeSink) Reply(_ context.Context, target *models.LogEntry, text string, files []models.File) (*models.LogEntry, error) {
	if target == nil {
		return nil, errors.New("nil reply target")
	}
	return f.post(target.ChannelID, text, files, target.ID)
}

func (f *fakeSink) RecentHistory(_ context.Context, _ string, limit int) ([]*models.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyLim = limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeSink) post(channelID, text string, files []models.File, replyTo string) (*models.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	f.posts = append(f.posts, sentPost{ChannelID: channelID, Text: text, Files: files, ReplyTo: replyTo})
	return &models.LogEntry{ID: fmt.Sprintf("audit-%d", f.nextID), ChannelID: channelID, Content: text}, nil
}

func (f *fakeSink) Posts() []sentPost {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentPost(nil), f.posts...)
}

// fakeFetcher returns one file per ref without touching the network.
type fakeFetcher struct {
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, refs []models.AttachmentRef) []models.File {
	f.calls++
	files := make([]models.File, 0, len(refs))
	for _, r := range refs {
		files = append(files, models.File{Name: r.Filename, Data: []byte(r.URL)})
	}
	return files
}

func testConfig() models.RelayConfig {
	return models.RelayConfig{
		Relay: models.RelaySection{
			DestinationChannelID: testAuditID,
			IgnoredRoleNames:     []string{"Bot 🤖"},
		},
	}
}

func testMessage(id, content string) *models.Message {
	return &models.Message{
		ID:        id,
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Content:   content,
		Author: models.Author{
			ID:            "1400000000000000004",
			Name:          "alice",
			Discriminator: "0",
			RoleNames:     []string{"Member"},
		},
	}
}
