package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"watson/internal/core/domain"
	"watson/internal/core/port"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Ready(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockReporter) CapabilityInitialized(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockReporter) CapabilityUnavailable(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockReporter) CapabilityDegraded(ctx context.Context, name string, err error) {
	m.Called(ctx, name, err)
}

func (m *MockReporter) SearchFailed(ctx context.Context, query string, err error) {
	m.Called(ctx, query, err)
}

type fakeSearcher struct {
	results []domain.VideoResult
	errs    []error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]domain.VideoResult, error) {
	defer func() { f.calls++ }()

	if f.calls < len(f.errs) && f.errs[f.calls] != nil {
		return nil, f.errs[f.calls]
	}

	return f.results, nil
}

func TestInitializeCapabilities_NoKey(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("CapabilityUnavailable", mock.Anything, SearchCapabilityName).Return()

	factoryCalled := false
	factory := func(_ string) (port.VideoSearcher, error) {
		factoryCalled = true
		return &fakeSearcher{}, nil
	}

	caps := InitializeCapabilities(t.Context(), domain.Config{GatewayToken: "token"}, factory, reporter)

	assert.IsType(t, Unavailable{}, caps)
	assert.False(t, factoryCalled)
	reporter.AssertExpectations(t)
}

func TestInitializeCapabilities_WithKey(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("CapabilityInitialized", mock.Anything, SearchCapabilityName).Return()

	var gotKey string
	searcher := &fakeSearcher{}
	factory := func(apiKey string) (port.VideoSearcher, error) {
		gotKey = apiKey
		return searcher, nil
	}

	caps := InitializeCapabilities(t.Context(),
		domain.Config{GatewayToken: "token", SearchAPIKey: "key"}, factory, reporter)

	available, ok := caps.(Available)
	require.True(t, ok)
	assert.NotNil(t, available.Search)
	assert.Equal(t, "key", gotKey)
	assert.Equal(t, 0, searcher.calls, "initialization must not search")
	reporter.AssertExpectations(t)
}

func TestInitializeCapabilities_FactoryErrorLeavesSearchUnavailable(t *testing.T) {
	clientErr := errors.New("bad client")

	reporter := new(MockReporter)
	reporter.On("CapabilityDegraded", mock.Anything, SearchCapabilityName, clientErr).Return().Once()

	factory := func(_ string) (port.VideoSearcher, error) {
		return nil, clientErr
	}

	caps := InitializeCapabilities(t.Context(),
		domain.Config{GatewayToken: "token", SearchAPIKey: "key"}, factory, reporter)

	assert.IsType(t, Unavailable{}, caps)
	reporter.AssertExpectations(t)
	reporter.AssertNotCalled(t, "CapabilityInitialized", mock.Anything, mock.Anything)
}

func TestMonitoredSearcher_Success(t *testing.T) {
	reporter := new(MockReporter)
	want := []domain.VideoResult{{Title: "lofi", URL: "https://example.org"}}
	ms := NewMonitoredSearcher(&fakeSearcher{results: want}, reporter, 3)

	got, err := ms.Search(t.Context(), "lofi", 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, ms.Degraded())
	reporter.AssertExpectations(t)
}

func TestMonitoredSearcher_AuthFailureDegradesImmediately(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("SearchFailed", mock.Anything, "lofi", mock.Anything).Return()
	reporter.On("CapabilityDegraded", mock.Anything, SearchCapabilityName, mock.Anything).Return().Once()

	authErr := domain.SearchFailed(domain.ReasonAuth, errors.New("keyInvalid"))
	ms := NewMonitoredSearcher(&fakeSearcher{errs: []error{authErr, authErr}}, reporter, 3)

	_, err := ms.Search(t.Context(), "lofi", 5)
	require.ErrorIs(t, err, authErr)
	assert.True(t, ms.Degraded())

	_, err = ms.Search(t.Context(), "lofi", 5)
	require.Error(t, err)

	reporter.AssertNumberOfCalls(t, "CapabilityDegraded", 1)
	reporter.AssertNumberOfCalls(t, "SearchFailed", 2)
}

func TestMonitoredSearcher_ConsecutiveFailures(t *testing.T) {
	timeout := domain.SearchFailed(domain.ReasonTimeout, context.DeadlineExceeded)

	tests := []struct {
		name         string
		errs         []error
		wantDegraded int
	}{
		{
			name:         "below threshold",
			errs:         []error{timeout, timeout},
			wantDegraded: 0,
		},
		{
			name:         "reaches threshold",
			errs:         []error{timeout, timeout, timeout},
			wantDegraded: 1,
		},
		{
			name:         "success resets the counter",
			errs:         []error{timeout, timeout, nil, timeout, timeout},
			wantDegraded: 0,
		},
		{
			name:         "degrades again after recovery",
			errs:         []error{timeout, timeout, timeout, nil, timeout, timeout, timeout},
			wantDegraded: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reporter := new(MockReporter)
			reporter.On("SearchFailed", mock.Anything, mock.Anything, mock.Anything).Return()
			reporter.On("CapabilityDegraded", mock.Anything, SearchCapabilityName, mock.Anything).Return()

			ms := NewMonitoredSearcher(&fakeSearcher{errs: tc.errs}, reporter, 3)
			for range tc.errs {
				_, _ = ms.Search(t.Context(), "q", 5)
			}

			reporter.AssertNumberOfCalls(t, "CapabilityDegraded", tc.wantDegraded)
		})
	}
}

func TestMonitoredSearcher_WrapsForeignErrors(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("SearchFailed", mock.Anything, "q", mock.Anything).Return()
	reporter.On("CapabilityDegraded", mock.Anything, SearchCapabilityName, mock.Anything).Return()

	ms := NewMonitoredSearcher(&fakeSearcher{errs: []error{errors.New("boom")}}, reporter, 1)

	_, err := ms.Search(t.Context(), "q", 5)

	var sfe *domain.SearchFailedError
	require.ErrorAs(t, err, &sfe)
	assert.Equal(t, domain.ReasonProvider, sfe.Reason)
	reporter.AssertExpectations(t)
}

func TestMonitoredSearcher_LogsSearchWhileDegraded(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("SearchFailed", mock.Anything, "q", mock.Anything).Return()
	reporter.On("CapabilityDegraded", mock.Anything, SearchCapabilityName, mock.Anything).Return()

	authErr := domain.SearchFailed(domain.ReasonAuth, errors.New("keyInvalid"))
	searcher := &fakeSearcher{errs: []error{authErr}, results: []domain.VideoResult{{Title: "t"}}}
	ms := NewMonitoredSearcher(searcher, reporter, 3)

	buf := &bytes.Buffer{}
	ctx := zerolog.New(buf).Level(zerolog.DebugLevel).WithContext(t.Context())

	_, _ = ms.Search(ctx, "q", 5)
	assert.NotContains(t, buf.String(), "searching while degraded")
	require.True(t, ms.Degraded())

	results, err := ms.Search(ctx, "q", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, searcher.calls, "degraded search must still reach the provider")
	assert.Contains(t, buf.String(), "searching while degraded")
	assert.False(t, ms.Degraded())
}
