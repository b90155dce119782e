package poll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
	"github.com/malosaaa/weerplaza-scraper/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 5 * time.Minute

// scriptedScraper plays back a fixed sequence of engine outcomes; the last
// outcome repeats once the script runs out.
type scriptedScraper struct {
	mu       sync.Mutex
	outcomes []scrapeOutcome
	calls    int
}

type scrapeOutcome struct {
	rec *domain.Record
	err error
}

func (s *scriptedScraper) Scrape(_ context.Context, _ string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.outcomes) {
		i = len(s.outcomes) - 1
	}
	s.calls++
	out := s.outcomes[i]
	return out.rec, out.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPoller(scraper Scraper, clock clockwork.Clock) *Poller {
	return New(scraper, "nederland/amsterdam", "amsterdam", testInterval, clock,
		discardLogger(), observability.NewMetricsForTesting())
}

func recordWithTemp(temp string) *domain.Record {
	return &domain.Record{
		WarningPresence:    domain.WarningNoneActive,
		Hourly:             []domain.HourlyEntry{{Time: "14:00", Description: "Zonnig", Temperature: temp}},
		CurrentTemperature: temp,
	}
}

func connectionErr() error {
	return domain.NewScrapeError(domain.KindConnection, errors.New("dial tcp: connection refused"))
}

func TestPoller_Tick_NewRecord(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC))
	rec := recordWithTemp("21°")
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{{rec: rec}}}, clock)

	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Same(t, rec, snap.Record)
	assert.Zero(t, snap.ConsecutiveErrors)
	assert.False(t, snap.LastTickError)
	assert.Equal(t, clock.Now(), snap.LastSuccessAt)
	assert.Equal(t, "amsterdam", snap.DisplayName)
	assert.Equal(t, "nederland/amsterdam", snap.Location)
}

func TestPoller_Tick_IdenticalContentKeepsPointer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	first := recordWithTemp("21°")
	second := recordWithTemp("21°") // distinct allocation, equal content
	scraper := &scriptedScraper{outcomes: []scrapeOutcome{{rec: first}, {rec: second}}}
	p := testPoller(scraper, clock)

	var results []domain.TickResult
	p.Subscribe(func(r domain.TickResult) { results = append(results, r) })

	p.tick(context.Background())
	clock.Advance(testInterval)
	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Same(t, first, snap.Record, "identical content must keep the previous record reference")
	require.Len(t, results, 2)
	assert.Equal(t, domain.TickUpdated, results[0].Status)
	assert.Equal(t, domain.TickUnchanged, results[1].Status)
	assert.Equal(t, clock.Now(), snap.LastSuccessAt, "an unchanged tick still advances the success stamp")
}

func TestPoller_Tick_ChangedContentReplacesRecord(t *testing.T) {
	clock := clockwork.NewFakeClock()
	first := recordWithTemp("21°")
	second := recordWithTemp("18°")
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{{rec: first}, {rec: second}}}, clock)

	p.tick(context.Background())
	p.tick(context.Background())

	assert.Same(t, second, p.Snapshot().Record)
}

func TestPoller_Tick_NoContentKeepsLastGood(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := recordWithTemp("21°")
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{
		{rec: rec},
		{rec: nil, err: nil}, // page loaded, nothing extractable
	}}, clock)

	var results []domain.TickResult
	p.Subscribe(func(r domain.TickResult) { results = append(results, r) })

	p.tick(context.Background())
	clock.Advance(testInterval)
	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Same(t, rec, snap.Record, "last good record is carried forward across no-data ticks")
	assert.Zero(t, snap.ConsecutiveErrors)
	assert.False(t, snap.LastTickError)
	assert.Equal(t, clock.Now(), snap.LastSuccessAt)
	assert.Equal(t, domain.TickNoData, results[1].Status)
}

func TestPoller_Tick_NotFoundNeverCountsAsError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := recordWithTemp("21°")
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{
		{rec: rec},
		{err: domain.NewScrapeError(domain.KindNoData, errors.New("location not found (404)"))},
	}}, clock)

	p.tick(context.Background())
	clock.Advance(testInterval)
	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Zero(t, snap.ConsecutiveErrors, "a 404 must never increment the error counter")
	assert.False(t, snap.LastTickError)
	assert.Same(t, rec, snap.Record, "a 404 must never overwrite the last good record")
	assert.Equal(t, clock.Now(), snap.LastSuccessAt)
}

func TestPoller_Tick_ErrorIncrementsAndPreservesState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := recordWithTemp("21°")
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{
		{rec: rec},
		{err: connectionErr()},
	}}, clock)

	p.tick(context.Background())
	successAt := p.LastSuccessAt()

	clock.Advance(testInterval)
	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Equal(t, 1, snap.ConsecutiveErrors, "one failed tick increments the counter by exactly 1")
	assert.True(t, snap.LastTickError)
	assert.Same(t, rec, snap.Record, "failures leave the published record unchanged")
	assert.Equal(t, successAt, snap.LastSuccessAt, "failures do not advance the success stamp")

	clock.Advance(testInterval)
	p.tick(context.Background())
	assert.Equal(t, 2, p.ConsecutiveErrors())
}

func TestPoller_Tick_RecoveryResetsErrorCount(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{
		{err: connectionErr()},
		{err: domain.NewScrapeError(domain.KindParsing, errors.New("layout changed"))},
		{err: connectionErr()},
		{rec: recordWithTemp("19°")},
	}}, clock)

	for i := 0; i < 3; i++ {
		p.tick(context.Background())
		clock.Advance(testInterval)
	}
	assert.Equal(t, 3, p.ConsecutiveErrors())
	assert.True(t, p.LastSuccessAt().IsZero())

	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Zero(t, snap.ConsecutiveErrors, "one success resets the consecutive-error count")
	assert.False(t, snap.LastTickError)
	assert.Equal(t, clock.Now(), snap.LastSuccessAt)
	assert.Equal(t, "19°", snap.Record.CurrentTemperature)
}

func TestPoller_Tick_ErrorBeforeAnyData(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{{err: connectionErr()}}}, clock)

	var result domain.TickResult
	p.Subscribe(func(r domain.TickResult) { result = r })
	p.tick(context.Background())

	snap := p.Snapshot()
	assert.Nil(t, snap.Record, "nothing is published before the first good scrape")
	assert.Equal(t, 1, snap.ConsecutiveErrors)
	assert.Equal(t, domain.TickError, result.Status)
	assert.Error(t, result.Err)
}

func TestPoller_Tick_AbandonedTickCommitsNothing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{{err: connectionErr()}}}, clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.tick(ctx)

	assert.False(t, p.Ticked(), "a tick abandoned by cancellation must not mutate state")
	assert.Zero(t, p.ConsecutiveErrors())
}

func TestPoller_Run_TicksOncePerInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := testPoller(&scriptedScraper{outcomes: []scrapeOutcome{{rec: recordWithTemp("21°")}}}, clock)

	results := make(chan domain.TickResult, 8)
	p.Subscribe(func(r domain.TickResult) { results <- r })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Immediate first tick.
	first := <-results
	assert.Equal(t, domain.TickUpdated, first.Status)

	// Wait for the ticker to exist before advancing the fake clock.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(testInterval)

	second := <-results
	assert.Equal(t, domain.TickUnchanged, second.Status)

	cancel()
	require.NoError(t, <-done)
}
