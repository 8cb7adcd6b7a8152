package service

import (
	"context"
	"errors"
	"sync"

	"watson/internal/core/domain"
	"watson/internal/core/port"

	"github.com/rs/zerolog"
)

const SearchCapabilityName = "video-search"

// Capabilities is either Unavailable or Available. It is decided once at startup.
type Capabilities interface {
	capabilities()
}

// Unavailable means no search key was configured; the search command is invisible.
type Unavailable struct{}

// Available carries a ready-to-use searcher.
type Available struct {
	Search port.VideoSearcher
}

func (Unavailable) capabilities() {}
func (Available) capabilities()   {}

// SearcherFactory builds a searcher for an API key. It must not perform network calls.
type SearcherFactory func(apiKey string) (port.VideoSearcher, error)

// InitializeCapabilities decides from cfg whether video search is available. A missing key is
// not an error, and neither is a client that cannot be built: both leave search Unavailable.
// The returned searcher reports failures and degradation to reporter.
func InitializeCapabilities(ctx context.Context, cfg domain.Config, factory SearcherFactory,
	reporter port.Reporter) Capabilities {
	if !cfg.HasSearch() {
		reporter.CapabilityUnavailable(ctx, SearchCapabilityName)
		return Unavailable{}
	}

	searcher, err := factory(cfg.SearchAPIKey)
	if err != nil {
		reporter.CapabilityDegraded(ctx, SearchCapabilityName, err)
		return Unavailable{}
	}

	reporter.CapabilityInitialized(ctx, SearchCapabilityName)

	return Available{Search: NewMonitoredSearcher(searcher, reporter, DefaultDegradeThreshold)}
}

const DefaultDegradeThreshold = 3

// MonitoredSearcher forwards to a provider and reports failures. It reports the capability
// as degraded once after an auth rejection or threshold consecutive failures, and clears
// that state on the next success.
type MonitoredSearcher struct {
	searcher  port.VideoSearcher
	reporter  port.Reporter
	threshold int

	mu       sync.Mutex
	failures int
	degraded bool
}

func NewMonitoredSearcher(searcher port.VideoSearcher, reporter port.Reporter, threshold int) *MonitoredSearcher {
	if threshold < 1 {
		threshold = 1
	}

	return &MonitoredSearcher{searcher: searcher, reporter: reporter, threshold: threshold}
}

func (m *MonitoredSearcher) Search(ctx context.Context, query string, limit int) ([]domain.VideoResult, error) {
	if m.Degraded() {
		zerolog.Ctx(ctx).Debug().Str("capability", SearchCapabilityName).Msg("searching while degraded")
	}

	results, err := m.searcher.Search(ctx, query, limit)
	if err == nil {
		m.mu.Lock()
		m.failures = 0
		m.degraded = false
		m.mu.Unlock()

		return results, nil
	}

	var sfe *domain.SearchFailedError
	if !errors.As(err, &sfe) {
		sfe = &domain.SearchFailedError{Reason: domain.ReasonProvider, Err: err}
		err = sfe
	}

	m.reporter.SearchFailed(ctx, query, err)

	m.mu.Lock()
	m.failures++
	report := !m.degraded && (sfe.Reason == domain.ReasonAuth || m.failures >= m.threshold)
	if report {
		m.degraded = true
	}
	m.mu.Unlock()

	if report {
		m.reporter.CapabilityDegraded(ctx, SearchCapabilityName, err)
	}

	return nil, err
}

// Degraded reports whether the provider is currently considered degraded.
func (m *MonitoredSearcher) Degraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.degraded
}
