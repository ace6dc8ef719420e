package stats

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/events"
	"github.com/DhavalSuthar-24/crease/internal/logger"
)

// Refresher is the part of Service the worker drives.
type Refresher interface {
	RefreshPlayers(ctx context.Context, players []string) error
}

// Worker refreshes careers whenever an innings or a match completes.
type Worker struct {
	broker events.Broker
	svc    Refresher
	log    *zap.Logger
}

func NewWorker(broker events.Broker, svc Refresher, log *zap.Logger) *Worker {
	return &Worker{broker: broker, svc: svc, log: logger.OrNop(log).Named("stats-worker")}
}

// Start subscribes to both event types and consumes them in the background
// until ctx is done or the broker closes. The returned channel is closed when
// the worker has stopped.
func (w *Worker) Start(ctx context.Context) (<-chan struct{}, error) {
	innings, err := w.broker.Consume(events.InningsCompleted)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", events.InningsCompleted, err)
	}
	matches, err := w.broker.Consume(events.MatchCompleted)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", events.MatchCompleted, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.loop(ctx, innings, matches)
	}()
	w.log.Info("stats worker started")
	return done, nil
}

func (w *Worker) loop(ctx context.Context, innings, matches <-chan events.Event) {
	for innings != nil || matches != nil {
		select {
		case <-ctx.Done():
			w.log.Info("stats worker stopped")
			return
		case e, ok := <-innings:
			if !ok {
				innings = nil
				continue
			}
			w.handle(ctx, e)
		case e, ok := <-matches:
			if !ok {
				matches = nil
				continue
			}
			w.handle(ctx, e)
		}
	}
	w.log.Info("event channels closed, stats worker exiting")
}

func (w *Worker) handle(ctx context.Context, e events.Event) {
	w.log.Debug("event received",
		zap.String("type", string(e.Type)),
		zap.Uint("match_id", e.MatchID),
		zap.Int("players", len(e.Players)),
	)
	if err := w.svc.RefreshPlayers(ctx, e.Players); err != nil {
		w.log.Warn("careers partially refreshed",
			zap.String("event_id", e.ID),
			zap.Uint("match_id", e.MatchID),
			zap.Error(err),
		)
	}
}
