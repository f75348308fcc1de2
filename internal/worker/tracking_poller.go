package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/unimart/settlement/internal/domain/model"
)

// TrackingFacade exposes the subset of application functionality required by the poller.
type TrackingFacade interface {
	OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error)
	RefreshTracking(ctx context.Context, order model.Order) error
}

// TrackingPoller periodically pulls carrier status for tracked, non-terminal
// orders and feeds the snapshots into the order state machine. It may race
// with inbound carrier webhooks for the same order; both paths converge
// through the per-order version check, so redundancy is harmless.
type TrackingPoller struct {
	facade       TrackingFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewTrackingPoller constructs the tracking worker pool.
func NewTrackingPoller(facade TrackingFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *TrackingPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &TrackingPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background polling.
func (p *TrackingPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *TrackingPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *TrackingPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *TrackingPoller) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.OrdersForTracking(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch orders for tracking failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *TrackingPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.facade.RefreshTracking(ctx, order); err != nil {
				p.logger.Error("tracking refresh failed",
					slog.Int64("order", order.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
