package store

import (
	"sync"

	"custody-ledger/events"
)

// Journal is the audit trail of observability events.
type Journal interface {
	Record(event events.Event)

	Events() []events.Event

	EventsOfType(eventType events.EventType) []events.Event
}

// InMemoryJournal is an append-only, thread-safe journal. Reads return
// copies so callers can never mutate the recorded history.
type InMemoryJournal struct {
	sync.RWMutex
	entries []events.Event
}

func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{
		entries: make([]events.Event, 0),
	}
}

func (j *InMemoryJournal) Record(event events.Event) {
	j.Lock()
	defer j.Unlock()
	j.entries = append(j.entries, event)
}

func (j *InMemoryJournal) Events() []events.Event {
	j.RLock()
	defer j.RUnlock()

	copied := make([]events.Event, len(j.entries))
	copy(copied, j.entries)
	return copied
}

func (j *InMemoryJournal) EventsOfType(eventType events.EventType) []events.Event {
	j.RLock()
	defer j.RUnlock()

	var result []events.Event
	for _, e := range j.entries {
		if e.GetBase().Type == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (j *InMemoryJournal) Len() int {
	j.RLock()
	defer j.RUnlock()
	return len(j.entries)
}
