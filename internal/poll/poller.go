// Package poll owns the per-location polling reconciler: a repeating timer
// that invokes the scrape engine once per interval, reconciles the outcome
// against the last-known-good record, and publishes tick results to
// subscribers. Each Poller exclusively owns its state; pollers for different
// locations are fully independent.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
	"github.com/malosaaa/weerplaza-scraper/internal/observability"
)

// Scraper is the fetch-and-parse engine contract. (nil, nil) means the page
// loaded but held no extractable content.
type Scraper interface {
	Scrape(ctx context.Context, locationPath string) (*domain.Record, error)
}

// Subscriber receives the tagged result of each completed tick, after state
// has been committed.
type Subscriber func(domain.TickResult)

// Poller reconciles scrape outcomes for a single location. State is updated
// atomically at tick completion, never incrementally during a scrape, so an
// abandoned in-flight tick leaves no partial mutation behind.
type Poller struct {
	scraper     Scraper
	location    string
	displayName string
	interval    time.Duration
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	subscribers []Subscriber

	mu                sync.RWMutex
	lastGood          *domain.Record
	lastSuccessAt     time.Time
	consecutiveErrors int
	lastTickError     bool
	ticked            bool
}

// New creates a poller for one location. Subscribers must be registered
// before Run is called.
func New(scraper Scraper, location, displayName string, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		scraper:     scraper,
		location:    location,
		displayName: displayName,
		interval:    interval,
		clock:       clock,
		logger:      logger.With("location", displayName),
		metrics:     metrics,
	}
}

// Subscribe registers a tick-completed callback. Not safe to call after Run.
func (p *Poller) Subscribe(fn Subscriber) {
	p.subscribers = append(p.subscribers, fn)
}

// Run ticks once immediately, then once per interval, until the context is
// cancelled. Ticks never interleave with themselves: each runs to completion
// before the next scheduled one is considered.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "path", p.location, "interval", p.interval)
	p.metrics.PollersRunning.Inc()
	defer p.metrics.PollersRunning.Dec()

	p.tick(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.tick(ctx)
		}
	}
}

// tick runs one scrape and commits the outcome. A tick abandoned by context
// cancellation commits nothing.
func (p *Poller) tick(ctx context.Context) {
	start := p.clock.Now()
	rec, err := p.scraper.Scrape(ctx, p.location)
	if ctx.Err() != nil {
		return
	}
	p.metrics.ScrapeDuration.WithLabelValues(p.displayName).Observe(p.clock.Since(start).Seconds())

	result := p.commit(rec, err)

	switch result.Status {
	case domain.TickError:
		p.logger.Error("tick failed", "status", result.Status, "consecutive_errors", p.ConsecutiveErrors(), "error", result.Err)
	case domain.TickNoData:
		p.logger.Debug("tick found no content, keeping last good record")
	default:
		p.logger.Debug("tick completed", "status", result.Status)
	}

	for _, fn := range p.subscribers {
		fn(result)
	}
}

// commit applies the reconciliation state machine for one engine outcome and
// returns the tagged result. A no-data outcome (empty page or 404) is never
// an error: counters reset and the last good record stays published, so a
// quiet location does not flap to unavailable.
func (p *Poller) commit(rec *domain.Record, err error) domain.TickResult {
	now := p.clock.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	result := domain.TickResult{Location: p.displayName, At: now}

	switch {
	case err == nil && rec != nil:
		if rec.Equal(p.lastGood) {
			// Keep the existing pointer so subscribers can cheaply detect
			// "nothing changed".
			result.Status = domain.TickUnchanged
		} else {
			p.lastGood = rec
			result.Status = domain.TickUpdated
		}
		p.markSuccess(now)

	case err == nil, domain.KindOf(err) == domain.KindNoData:
		result.Status = domain.TickNoData
		p.markSuccess(now)

	default:
		result.Status = domain.TickError
		result.Err = err
		p.consecutiveErrors++
		p.lastTickError = true
		p.metrics.ScrapeFailures.WithLabelValues(p.displayName, string(domain.KindOf(err))).Inc()
	}

	p.ticked = true
	result.Record = p.lastGood

	p.metrics.TicksTotal.WithLabelValues(p.displayName, string(result.Status)).Inc()
	p.metrics.ConsecutiveErrors.WithLabelValues(p.displayName).Set(float64(p.consecutiveErrors))
	return result
}

func (p *Poller) markSuccess(now time.Time) {
	p.consecutiveErrors = 0
	p.lastTickError = false
	p.lastSuccessAt = now
	p.metrics.LastSuccessTimestamp.WithLabelValues(p.displayName).Set(float64(now.Unix()))
}

// Snapshot returns the published record and diagnostics as of the last
// completed tick.
func (p *Poller) Snapshot() domain.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.Snapshot{
		Location:          p.location,
		DisplayName:       p.displayName,
		Record:            p.lastGood,
		ConsecutiveErrors: p.consecutiveErrors,
		LastTickError:     p.lastTickError,
		LastSuccessAt:     p.lastSuccessAt,
	}
}

// ConsecutiveErrors returns the current consecutive-error count.
func (p *Poller) ConsecutiveErrors() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.consecutiveErrors
}

// LastTickError reports whether the most recent tick failed.
func (p *Poller) LastTickError() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastTickError
}

// LastSuccessAt returns the time of the most recent non-error tick, zero if
// none has completed yet.
func (p *Poller) LastSuccessAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSuccessAt
}

// Ticked reports whether at least one tick has completed.
func (p *Poller) Ticked() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ticked
}
