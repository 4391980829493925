package employee

import "time"

// EventType names the mutation that produced an Event.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes one successful store mutation. For deletes Employee holds
// the removed value.
type Event struct {
	Type     EventType `json:"type"`
	Employee Employee  `json:"employee"`
	At       time.Time `json:"at"`
}
