package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// BaseEvent carries the metadata common to every observability event the
// ledger emits. Events are an audit record only; they are never used for
// authorization or state reconstruction.
type BaseEvent struct {
	EventID   uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

type Event interface {
	GetBase() BaseEvent
}

func (e BaseEvent) GetBase() BaseEvent {
	return e
}

const (
	DepositedType            EventType = "Deposited"
	WithdrawnType            EventType = "Withdrawn"
	AssetConvertedType       EventType = "AssetConverted"
	AssetRegisteredType      EventType = "AssetRegistered"
	AssetDeregisteredType    EventType = "AssetDeregistered"
	OwnershipTransferredType EventType = "OwnershipTransferred"
)

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
	}
}
