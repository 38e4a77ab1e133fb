// Package scheduler runs the periodic price refresh.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/robfig/cron/v3"
)

// refreshTimeout bounds a single scheduled refresh.
const refreshTimeout = 2 * time.Minute

// PriceRefresher is the operation the scheduler triggers.
type PriceRefresher interface {
	RefreshPrices(ctx context.Context) (model.PriceRefreshResult, error)
}

// Scheduler triggers a price refresh on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	refresher PriceRefresher
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a Scheduler running refresher on schedule.
// The schedule accepts standard 5-field cron specs and descriptors such as "@every 15m".
func New(schedule string, refresher PriceRefresher) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		ctx:       ctx,
		cancel:    cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.runRefresh); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid price refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	log.Printf("Price refresh scheduler started")
	s.cron.Start()
}

// Stop cancels a running refresh and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Printf("Price refresh scheduler stopped")
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(s.ctx, refreshTimeout)
	defer cancel()

	result, err := s.refresher.RefreshPrices(ctx)
	if err != nil {
		log.Printf("Scheduled price refresh failed: %v", err)
		return
	}
	log.Printf("Scheduled price refresh: %d updated, %d failed", len(result.Updated), len(result.Failed))
}
