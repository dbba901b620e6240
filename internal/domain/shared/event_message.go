package shared

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/domain/transaction"
)

var ErrMissingEventID = errors.New("event message has no event id")

// EventMessage defines a Kafka message carrying one engine event
type EventMessage struct {
	EventID       uuid.UUID         `json:"event_id"`
	Event         transaction.Event `json:"event"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// NewEventMessage wraps an event with a fresh id and the current time
func NewEventMessage(event transaction.Event, correlationID string) EventMessage {
	return EventMessage{
		EventID:       uuid.New(),
		Event:         event,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	}
}

// Key partitions messages by client so a client's events stay ordered
func (m EventMessage) Key() string {
	return strconv.FormatUint(uint64(m.Event.Client), 10)
}

func (m EventMessage) Validate() error {
	if m.EventID == uuid.Nil {
		return ErrMissingEventID
	}
	return m.Event.Validate()
}
