package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coursesync-backend/internal/components/telemetry"
)

// stubAccessor serves `pages` in order, repeating the last one.
type stubAccessor struct {
	mutex   sync.Mutex
	pages   []string
	err     error
	fetches int
	links   []string
}

func (s *stubAccessor) Fetch(_ context.Context, link string) (Page, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.fetches++
	s.links = append(s.links, link)
	if s.err != nil {
		return Page{}, s.err
	}
	if len(s.pages) == 0 {
		return Page{}, errors.New("no pages")
	}
	idx := min(s.fetches-1, len(s.pages)-1)
	return NewPage(link, s.pages[idx])
}

func (s *stubAccessor) Fetches() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.fetches
}

// gatedAccessor blocks every fetch until `gate` is closed.
type gatedAccessor struct {
	stubAccessor
	started chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatedAccessor(pages ...string) *gatedAccessor {
	return &gatedAccessor{
		stubAccessor: stubAccessor{pages: pages},
		started:      make(chan struct{}),
		gate:         make(chan struct{}),
	}
}

func (g *gatedAccessor) Fetch(ctx context.Context, link string) (Page, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.gate:
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}
	return g.stubAccessor.Fetch(ctx, link)
}

func immediateRetry(maxAttempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   maxAttempts,
		FallbackAfter: 10,
	}
}

func newMemoryTelemetry() *telemetry.MemoryAPI {
	return &telemetry.MemoryAPI{}
}

func newTestEngine(t testing.TB, accessor DocumentAccessor, retry RetryPolicy) (*Engine, *telemetry.MemoryAPI) {
	t.Helper()
	tel := newMemoryTelemetry()
	return NewEngine(EngineOptions{
		Accessor: accessor,
		Retry:    retry,
	}, tel), tel
}
