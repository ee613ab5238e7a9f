package domain

// EventType identifies a real-time event pushed to dashboard listeners.
type EventType string

const (
	EventTimeEntryCreated EventType = "time_entry.created"
	EventTimeEntryUpdated EventType = "time_entry.updated"
	EventTimeEntryDeleted EventType = "time_entry.deleted"
)

// Event is a broadcast message for connected clients.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}
