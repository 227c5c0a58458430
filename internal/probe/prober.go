package probe

import (
	"context"
	"time"
)

// Endpoint is a URL the prober checks for reachability. Identity is the
// string itself; duplicate endpoints are probed independently.
type Endpoint = string

// ProbeResult pairs an Endpoint with its reachability outcome. It is created
// once by the check for that endpoint and not modified afterwards.
type ProbeResult struct {
	Endpoint   Endpoint `json:"endpoint"`
	Reachable  bool     `json:"reachable"`
	StatusCode int      `json:"status_code,omitempty"`
	LatencyMS  float64  `json:"latency_ms"`
	Reason     string   `json:"reason,omitempty"`
}

// ResultSet is the complete collection of ProbeResults from one ProbeAll
// call: exactly one entry per input endpoint. Entries arrive in completion
// order, so the slice order carries no meaning; treat it as a multiset.
type ResultSet []ProbeResult

// Up counts the reachable entries.
func (rs ResultSet) Up() int {
	n := 0
	for _, r := range rs {
		if r.Reachable {
			n++
		}
	}
	return n
}

// Down counts the unreachable entries.
func (rs ResultSet) Down() int { return len(rs) - rs.Up() }

// Prober runs reachability checks against endpoints. Timeout bounds each
// individual check; checks do not share a deadline and do not cancel each
// other.
type Prober struct {
	Checker Checker
	Timeout time.Duration
}

func NewProber(c Checker, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Prober{Checker: c, Timeout: timeout}
}

// Probe checks a single endpoint. It never fails: transport errors, timeouts
// and non-success statuses all come back as an unreachable ProbeResult.
func (p *Prober) Probe(ctx context.Context, ep Endpoint) ProbeResult {
	cctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out := p.Checker.Check(cctx, ep)
	return ProbeResult{
		Endpoint:   ep,
		Reachable:  out.Success,
		StatusCode: out.StatusCode,
		LatencyMS:  out.LatencyMS,
		Reason:     out.Message,
	}
}

// ProbeAll checks every endpoint concurrently and returns once all of them
// have reported. Each check runs in its own goroutine and posts its result
// to a channel; the drain loop below takes exactly len(endpoints) values, so
// the caller is released strictly after the slowest check finishes. A hung
// or slow check delays the return but never cancels its siblings.
func (p *Prober) ProbeAll(ctx context.Context, endpoints []Endpoint) ResultSet {
	results := make(chan ProbeResult, len(endpoints))
	for _, ep := range endpoints {
		go func(ep Endpoint) {
			results <- p.Probe(ctx, ep)
		}(ep)
	}

	set := make(ResultSet, 0, len(endpoints))
	for range endpoints {
		set = append(set, <-results)
	}
	return set
}
