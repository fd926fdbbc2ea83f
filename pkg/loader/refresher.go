package loader

import (
	"context"
	"time"

	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/catalog"
)

// RefreshConfig contains configuration for the background refresher.
type RefreshConfig struct {
	// Enabled controls whether background refresh is active (default: false)
	Enabled bool

	// Interval is how often to refresh the listing (default: 5m)
	Interval time.Duration
}

// Refresher periodically refetches the listing in the background.
//
// Every successful refresh is delivered through the onUpdate callback.
// Failed refreshes are logged and skipped; the previous listing stays
// in place until the next attempt.
//
// Thread Safety: Safe for concurrent use.
type Refresher struct {
	loader   *Loader
	config   RefreshConfig
	onUpdate func([]catalog.Record)
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRefresher creates a background refresher.
//
// The refresher will be initialized but not started. Call Start() to
// begin background refreshing.
//
// Parameters:
//   - loader: Loader used to fetch fresh listings
//   - config: Refresh configuration
//   - onUpdate: Called with the new listing after every successful refresh
func NewRefresher(loader *Loader, config RefreshConfig, onUpdate func([]catalog.Record)) *Refresher {
	if config.Interval == 0 {
		config.Interval = 5 * time.Minute
	}

	return &Refresher{
		loader:   loader,
		config:   config,
		onUpdate: onUpdate,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins background refreshing.
//
// This starts a goroutine that refetches the listing at the configured
// interval. The goroutine runs until Stop() is called.
func (r *Refresher) Start() {
	if !r.config.Enabled {
		logger.Debug("Background refresh disabled")
		return
	}

	logger.Info("Starting background refresh: interval=%s", r.config.Interval)

	go r.worker()
}

// Stop stops the refresher and waits for it to finish.
//
// Parameters:
//   - ctx: Context for timeout (an in-flight refresh is abandoned if the
//     context expires)
//
// Returns:
//   - error: Returns error if context expires before shutdown completes
func (r *Refresher) Stop(ctx context.Context) error {
	if !r.config.Enabled {
		return nil
	}

	close(r.stopCh)

	select {
	case <-r.doneCh:
		logger.Info("Background refresh stopped")
		return nil
	case <-ctx.Done():
		logger.Warn("Background refresh shutdown timeout")
		return ctx.Err()
	}
}

// worker is the background goroutine that runs periodic refreshes.
func (r *Refresher) worker() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			records, err := r.loader.Refresh(ctx)
			cancel()

			if err != nil {
				logger.Warn("Background refresh failed, keeping previous listing: %v", err)
				continue
			}

			if r.onUpdate != nil {
				r.onUpdate(records)
			}

		case <-r.stopCh:
			return
		}
	}
}
