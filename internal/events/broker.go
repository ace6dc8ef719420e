// Package events carries match lifecycle notifications between the scoring
// service and background consumers such as the stats aggregator.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type Type string

const (
	InningsCompleted Type = "innings.completed"
	MatchCompleted   Type = "match.completed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is published once per lifecycle transition.
type Event struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	MatchID       uint      `json:"matchId"`
	InningsNumber int       `json:"inningsNumber,omitempty"`
	Players       []string  `json:"players,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(t Type, matchID uint, inningsNumber int, players []string) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          t,
		MatchID:       matchID,
		InningsNumber: inningsNumber,
		Players:       players,
		OccurredAt:    time.Now().UTC(),
	}
}

// Broker is the transport for lifecycle events.
type Broker interface {
	// Publish delivers e to every consumer of e.Type.
	Publish(ctx context.Context, e Event) error
	// Consume subscribes to one event type. The channel is closed by Close.
	Consume(t Type) (<-chan Event, error)
	Close() error
}

func encode(e Event) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.Type, err)
	}
	return b, nil
}

func decode(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" || e.MatchID == 0 {
		return Event{}, fmt.Errorf("decode event: missing type or match id")
	}
	return e, nil
}

// Open returns an AMQP broker when amqpURL is set, the in-memory broker
// otherwise.
func Open(amqpURL, exchange string, log *zap.Logger) (Broker, error) {
	if amqpURL == "" {
		return NewInMemoryBroker(log), nil
	}
	return DialAMQP(amqpURL, exchange, log)
}
