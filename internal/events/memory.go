package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
)

var ErrBrokerClosed = errors.New("broker closed")

const consumerBuffer = 256

// InMemoryBroker fans events out to in-process consumers. A full consumer
// buffer drops the event for that consumer.
type InMemoryBroker struct {
	mu        sync.RWMutex
	consumers map[Type][]chan Event
	closed    bool
	log       *zap.Logger
}

func NewInMemoryBroker(log *zap.Logger) *InMemoryBroker {
	return &InMemoryBroker{
		consumers: make(map[Type][]chan Event),
		log:       logger.OrNop(log),
	}
}

func (b *InMemoryBroker) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBrokerClosed
	}

	chans := b.consumers[e.Type]
	if len(chans) == 0 {
		b.log.Debug("no consumers for event, dropped", zap.String("type", string(e.Type)), zap.Uint("match_id", e.MatchID))
		return nil
	}
	for _, ch := range chans {
		select {
		case ch <- e:
		default:
			b.log.Warn("consumer buffer full, event dropped", zap.String("type", string(e.Type)), zap.Uint("match_id", e.MatchID))
		}
	}
	return nil
}

func (b *InMemoryBroker) Consume(t Type) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}
	ch := make(chan Event, consumerBuffer)
	b.consumers[t] = append(b.consumers[t], ch)
	b.log.Debug("consumer subscribed", zap.String("type", string(t)), zap.Int("consumers", len(b.consumers[t])))
	return ch, nil
}

func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	for _, chans := range b.consumers {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.consumers = make(map[Type][]chan Event)
	b.closed = true
	return nil
}
