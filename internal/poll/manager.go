package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
	"github.com/malosaaa/weerplaza-scraper/internal/observability"
)

// LocationConfig describes one polled location.
type LocationConfig struct {
	Name     string // display name, unique per manager
	Path     string // opaque weerplaza location path
	Interval time.Duration
}

// Manager owns one poller per configured location. Each poller is created
// with its configuration and destroyed with it; there is no ambient lookup
// table beyond the manager instance itself.
type Manager struct {
	scraper     Scraper
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	subscribers []Subscriber

	mu      sync.Mutex
	pollers map[string]*managedPoller
}

type managedPoller struct {
	poller *Poller
	config LocationConfig
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates an empty manager. Subscribers are attached to every
// poller it configures.
func NewManager(scraper Scraper, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, subscribers ...Subscriber) *Manager {
	return &Manager{
		scraper:     scraper,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		subscribers: subscribers,
		pollers:     make(map[string]*managedPoller),
	}
}

// Configure creates and starts a poller for cfg. The poller runs until the
// given context is cancelled or the location is removed.
func (m *Manager) Configure(ctx context.Context, cfg LocationConfig) error {
	if cfg.Name == "" || cfg.Path == "" {
		return errors.New("location name and path are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pollers[cfg.Name]; exists {
		return fmt.Errorf("location %q is already configured", cfg.Name)
	}

	p := New(m.scraper, cfg.Path, cfg.Name, cfg.Interval, m.clock, m.logger, m.metrics)
	for _, fn := range m.subscribers {
		p.Subscribe(fn)
	}

	runCtx, cancel := context.WithCancel(ctx)
	mp := &managedPoller{poller: p, config: cfg, cancel: cancel, done: make(chan struct{})}
	m.pollers[cfg.Name] = mp

	go func() {
		defer close(mp.done)
		if err := p.Run(runCtx); err != nil {
			m.logger.Error("poller exited with error", "location", cfg.Name, "error", err)
		}
	}()

	return nil
}

// Remove stops the named location's poller, waits for its in-flight tick to
// finish or be abandoned, and discards its state.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	mp, ok := m.pollers[name]
	if ok {
		delete(m.pollers, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("location %q is not configured", name)
	}

	mp.cancel()
	<-mp.done
	m.logger.Info("location removed", "location", name)
	return nil
}

// Reconfigure applies an options update: the location's poller is torn down
// and fully reinitialized with the new interval and a fresh polling state.
func (m *Manager) Reconfigure(ctx context.Context, name string, interval time.Duration) error {
	m.mu.Lock()
	mp, ok := m.pollers[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("location %q is not configured", name)
	}

	cfg := mp.config
	cfg.Interval = interval

	if err := m.Remove(name); err != nil {
		return err
	}
	return m.Configure(ctx, cfg)
}

// Snapshot returns the named location's published state.
func (m *Manager) Snapshot(name string) (domain.Snapshot, bool) {
	m.mu.Lock()
	mp, ok := m.pollers[name]
	m.mu.Unlock()
	if !ok {
		return domain.Snapshot{}, false
	}
	return mp.poller.Snapshot(), true
}

// Snapshots returns the published state of every configured location,
// ordered by display name.
func (m *Manager) Snapshots() []domain.Snapshot {
	m.mu.Lock()
	pollers := make([]*Poller, 0, len(m.pollers))
	for _, mp := range m.pollers {
		pollers = append(pollers, mp.poller)
	}
	m.mu.Unlock()

	snaps := make([]domain.Snapshot, 0, len(pollers))
	for _, p := range pollers {
		snaps = append(snaps, p.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].DisplayName < snaps[j].DisplayName })
	return snaps
}

// CheckReadiness returns nil once at least one location has completed a
// tick, or an error describing why the service is not yet ready.
func (m *Manager) CheckReadiness(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pollers) == 0 {
		return errors.New("no locations configured")
	}
	for _, mp := range m.pollers {
		if mp.poller.Ticked() {
			return nil
		}
	}
	return errors.New("no location has completed a tick yet")
}

// Close stops every poller and waits for them to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	all := make([]*managedPoller, 0, len(m.pollers))
	for name, mp := range m.pollers {
		all = append(all, mp)
		delete(m.pollers, name)
	}
	m.mu.Unlock()

	for _, mp := range all {
		mp.cancel()
		<-mp.done
	}
}
