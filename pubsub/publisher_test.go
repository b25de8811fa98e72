package pubsub

import (
	"encoding/json"
	"testing"
	"time"

	"discord-audit-relay/models"
	"discord-audit-relay/relay"

	"github.com/google/uuid"
)

func testEvent() models.Event {
	return models.Deleted(&models.Message{
		ID:        "1500000000000000005",
		GuildID:   "1100000000000000001",
		ChannelID: "1200000000000000002",
		Content:   "bye",
	})
}

func TestNewEnvelope(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entry := &models.LogEntry{ID: "900", ChannelID: "800", Content: "alice | link | DELETED: bye"}

	env, ok := NewEnvelope(testEvent(), relay.OutcomeReplied, entry, at)
	if !ok {
		t.Fatal("NewEnvelope: want ok")
	}
	if _, err := uuid.Parse(env.Meta.ID); err != nil {
		t.Errorf("Meta.ID %q is not a uuid: %v", env.Meta.ID, err)
	}
	if env.Meta.Kind != "deleted" || env.Meta.MessageID != "1500000000000000005" || env.Meta.EntryID != "900" {
		t.Errorf("Meta: got %+v", env.Meta)
	}
	if !env.Meta.Replied || !env.Meta.At.Equal(at) {
		t.Errorf("Meta: got %+v", env.Meta)
	}
	if env.Data.Text != entry.Content {
		t.Errorf("Data.Text: got %q", env.Data.Text)
	}

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["meta"]["message_id"] != "1500000000000000005" || decoded["data"]["text"] != entry.Content {
		t.Errorf("wire format: got %s", body)
	}
}

func TestNewEnvelopeSkipsUnposted(t *testing.T) {
	t.Parallel()
	entry := &models.LogEntry{ID: "900"}
	for _, outcome := range []relay.Outcome{relay.OutcomeSkipped, relay.OutcomeDropped, relay.OutcomeFailed} {
		if _, ok := NewEnvelope(testEvent(), outcome, entry, time.Now()); ok {
			t.Errorf("outcome %v: want no envelope", outcome)
		}
	}
	if _, ok := NewEnvelope(testEvent(), relay.OutcomePosted, nil, time.Now()); ok {
		t.Error("nil entry: want no envelope")
	}
}

func TestRoutingKey(t *testing.T) {
	t.Parallel()
	tests := map[models.EventKind]string{
		models.EventCreated: "audit.created",
		models.EventEdited:  "audit.edited",
		models.EventDeleted: "audit.deleted",
	}
	for kind, want := range tests {
		if got := RoutingKey(kind); got != want {
			t.Errorf("RoutingKey(%v): got %q, want %q", kind, got, want)
		}
	}
}
