package models

// EventKind tags an inbound message event.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventEdited
	EventDeleted
)

// String returns the lower-case name used in logs and routing keys.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventEdited:
		return "edited"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one message lifecycle event. Before is only set for edits.
type Event struct {
	Kind   EventKind
	Before *Message
	After  *Message
}

// Created wraps a newly posted message.
func Created(m *Message) Event {
	return Event{Kind: EventCreated, After: m}
}

// Edited wraps both states of an edited message.
func Edited(before, after *Message) Event {
	return Event{Kind: EventEdited, Before: before, After: after}
}

// Deleted wraps the last known state of a deleted message.
func Deleted(m *Message) Event {
	return Event{Kind: EventDeleted, After: m}
}

// Subject returns the message the eligibility filter and the audit line are based on.
func (e Event) Subject() *Message {
	return e.After
}
