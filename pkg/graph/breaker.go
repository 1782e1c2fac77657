package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/types"
	"github.com/sony/gobreaker"
)

// BreakerService wraps a Service with circuit breaking logic. Once the graph
// database starts failing persistently, the breaker opens and calls return
// immediately, letting retrieval degrade to semantic-only results instead of
// stalling on a dead connection.
type BreakerService struct {
	inner Service
	cb    *gobreaker.CircuitBreaker
	log   *slog.Logger
}

// NewBreakerService creates a new circuit-breaking wrapper around inner.
func NewBreakerService(inner Service, cfg config.CircuitBreakerConfig, log *slog.Logger) *BreakerService {
	if log == nil {
		log = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        "graph-service",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerService{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(st),
		log:   log,
	}
}

// Neighbors implements Service.
func (b *BreakerService) Neighbors(ctx context.Context, seedIDs []string, maxHops, limit int) ([]string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Neighbors(ctx, seedIDs, maxHops, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Centrality implements Service.
func (b *BreakerService) Centrality(ctx context.Context, ids []string) ([]types.CentralityScore, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Centrality(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.CentralityScore), nil
}

// Upsert implements Service.
func (b *BreakerService) Upsert(ctx context.Context, chunks []types.Chunk, entities []types.Entity, relations []types.Relation) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Upsert(ctx, chunks, entities, relations)
	})
	return err
}

// Close implements Service. Close bypasses the breaker; shutting down a
// tripped service must still release its resources.
func (b *BreakerService) Close(ctx context.Context) error {
	return b.inner.Close(ctx)
}
