package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/liveprobe/liveprobe/internal/domain"
	"github.com/liveprobe/liveprobe/internal/probe"
	"github.com/liveprobe/liveprobe/internal/repo"
)

// --- fakes ---

type fakeTargets struct {
	t []*domain.Target
}

func (f *fakeTargets) Add(ctx context.Context, t *domain.Target) error { return nil }
func (f *fakeTargets) List(ctx context.Context) ([]*domain.Target, error) {
	return f.t, nil
}
func (f *fakeTargets) GetByURL(ctx context.Context, url string) (*domain.Target, error) {
	for _, t := range f.t {
		if t.URL == url {
			return t, nil
		}
	}
	return nil, nil
}

type fakeResults struct {
	mu   sync.Mutex
	all  []*domain.CheckResult
	rows []repo.LatestRow // for alerter tests
}

func (f *fakeResults) Append(ctx context.Context, cr *domain.CheckResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cr
	f.all = append(f.all, &cp)
	return nil
}

func (f *fakeResults) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, nil
}

type alwaysOK struct{}

func (a *alwaysOK) Check(ctx context.Context, target string) probe.CheckResult {
	return probe.CheckResult{
		Success:    true,
		StatusCode: 200,
		LatencyMS:  1,
		Message:    "200 OK",
	}
}

// --- tests ---

func TestRechecker_RunOnce_AppendsResultPerTarget(t *testing.T) {
	tstore := &fakeTargets{t: []*domain.Target{
		{ID: "T1", URL: "https://a.example"},
		{ID: "T2", URL: "https://b.example"},
	}}
	rstore := &fakeResults{}
	rc := NewRechecker(
		zap.NewNop(),
		tstore,
		rstore,
		probe.NewProber(&alwaysOK{}, 200*time.Millisecond),
		time.Minute,
	)

	rc.runOnce(context.Background())

	rstore.mu.Lock()
	defer rstore.mu.Unlock()
	if len(rstore.all) != 2 {
		t.Fatalf("expected one result per target, got %d", len(rstore.all))
	}
	seen := map[domain.TargetID]bool{}
	for _, cr := range rstore.all {
		seen[cr.TargetID] = true
		if !cr.Up || cr.HTTPStatus != 200 {
			t.Fatalf("unexpected result: %+v", cr)
		}
	}
	if !seen["T1"] || !seen["T2"] {
		t.Fatalf("missing targets in results: %+v", seen)
	}
}

func TestRechecker_RunLoop_ExecutesImmediatePass(t *testing.T) {
	tstore := &fakeTargets{t: []*domain.Target{{ID: "T1", URL: "https://a.example"}}}
	rstore := &fakeResults{}
	rc := NewRechecker(
		zap.NewNop(),
		tstore,
		rstore,
		probe.NewProber(&alwaysOK{}, 200*time.Millisecond),
		2*time.Millisecond,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rc.Run(ctx)

	time.Sleep(20 * time.Millisecond)

	rstore.mu.Lock()
	n := len(rstore.all)
	rstore.mu.Unlock()
	if n == 0 {
		t.Fatalf("expected at least one Append call")
	}
}

func TestRechecker_ZeroIntervalDisabled(t *testing.T) {
	rstore := &fakeResults{}
	rc := NewRechecker(
		zap.NewNop(),
		&fakeTargets{t: []*domain.Target{{ID: "T1", URL: "https://a.example"}}},
		rstore,
		probe.NewProber(&alwaysOK{}, 200*time.Millisecond),
		0,
	)

	done := make(chan struct{})
	go func() {
		rc.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run should return immediately with interval 0")
	}
	rstore.mu.Lock()
	defer rstore.mu.Unlock()
	if len(rstore.all) != 0 {
		t.Fatalf("disabled rechecker must not probe")
	}
}
