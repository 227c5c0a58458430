package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// scriptedChecker returns canned results per target, optionally after a delay.
type scriptedChecker struct {
	results map[string]CheckResult
	delays  map[string]time.Duration
}

func (s *scriptedChecker) Check(ctx context.Context, target string) CheckResult {
	if d := s.delays[target]; d > 0 {
		time.Sleep(d)
	}
	if r, ok := s.results[target]; ok {
		return r
	}
	return CheckResult{Success: false, Message: "unscripted target"}
}

func TestProbeAll_EmptyInput(t *testing.T) {
	p := NewProber(&scriptedChecker{}, time.Second)
	set := p.ProbeAll(context.Background(), nil)
	if len(set) != 0 {
		t.Fatalf("want empty result set, got %d entries", len(set))
	}
}

func TestProbeAll_OneEntryPerEndpoint_Duplicates(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer ok.Close()
	fail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 503)
	}))
	defer fail.Close()

	p := NewProber(NewHTTPChecker(2*time.Second), 2*time.Second)
	in := []Endpoint{ok.URL, fail.URL, ok.URL}
	set := p.ProbeAll(context.Background(), in)

	if len(set) != len(in) {
		t.Fatalf("cardinality: want %d results, got %d", len(in), len(set))
	}

	// multiset check: 2x reachable for ok.URL, 1x unreachable for fail.URL
	upOK, downFail := 0, 0
	for _, r := range set {
		switch {
		case r.Endpoint == ok.URL && r.Reachable:
			upOK++
		case r.Endpoint == fail.URL && !r.Reachable:
			downFail++
		default:
			t.Fatalf("unexpected result: %+v", r)
		}
	}
	if upOK != 2 || downFail != 1 {
		t.Fatalf("want 2 up / 1 down, got %d up / %d down", upOK, downFail)
	}
	if set.Up() != 2 || set.Down() != 1 {
		t.Fatalf("counters wrong: up=%d down=%d", set.Up(), set.Down())
	}
}

func TestProbeAll_WaitsForSlowestCheck(t *testing.T) {
	chk := &scriptedChecker{
		results: map[string]CheckResult{
			"https://fast.test": {Success: true, StatusCode: 200},
			"https://slow.test": {Success: true, StatusCode: 200},
		},
		delays: map[string]time.Duration{
			"https://slow.test": 150 * time.Millisecond,
		},
	}
	p := NewProber(chk, time.Second)

	start := time.Now()
	set := p.ProbeAll(context.Background(), []Endpoint{"https://fast.test", "https://slow.test"})
	elapsed := time.Since(start)

	if elapsed < 150*time.Millisecond {
		t.Fatalf("returned before the slow check finished (%v)", elapsed)
	}
	if len(set) != 2 {
		t.Fatalf("want 2 results, got %d", len(set))
	}
	found := false
	for _, r := range set {
		if r.Endpoint == "https://slow.test" && r.Reachable {
			found = true
		}
	}
	if !found {
		t.Fatalf("slow check result missing from set: %+v", set)
	}
}

func TestProbeAll_ChecksRunConcurrently(t *testing.T) {
	// 5 endpoints, 100ms each: sequential execution would need 500ms.
	chk := &scriptedChecker{
		results: map[string]CheckResult{},
		delays:  map[string]time.Duration{},
	}
	var in []Endpoint
	for _, u := range []string{"https://a.test", "https://b.test", "https://c.test", "https://d.test", "https://e.test"} {
		chk.results[u] = CheckResult{Success: true}
		chk.delays[u] = 100 * time.Millisecond
		in = append(in, u)
	}
	p := NewProber(chk, time.Second)

	start := time.Now()
	set := p.ProbeAll(context.Background(), in)
	elapsed := time.Since(start)

	if len(set) != 5 {
		t.Fatalf("want 5 results, got %d", len(set))
	}
	if elapsed > 400*time.Millisecond {
		t.Fatalf("checks appear to run sequentially: %v", elapsed)
	}
}

func TestProbe_TimeoutIsUnreachable(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	p := NewProber(NewHTTPChecker(time.Second), 50*time.Millisecond)
	r := p.Probe(context.Background(), s.URL)
	if r.Reachable {
		t.Fatalf("want unreachable on timeout, got %+v", r)
	}
	if r.Reason == "" {
		t.Fatalf("want a failure reason")
	}
}

func TestProbe_ReachableEndpoint(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))
	defer s.Close()

	p := NewProber(NewHTTPChecker(time.Second), time.Second)
	r := p.Probe(context.Background(), s.URL)
	if !r.Reachable || r.StatusCode != 204 {
		t.Fatalf("want reachable 204, got %+v", r)
	}
	if r.Endpoint != s.URL {
		t.Fatalf("result endpoint mismatch: %q", r.Endpoint)
	}
}
