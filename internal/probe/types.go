package probe

import "context"

// CheckResult holds the outcome of a single check against one target.
// StatusCode is 0 when the request never produced a response (transport
// error, timeout).
type CheckResult struct {
	Success    bool    `json:"success"`
	StatusCode int     `json:"status_code,omitempty"`
	LatencyMS  float64 `json:"latency_ms"`
	Message    string  `json:"message,omitempty"`
}

// Checker is implemented by any reachability check (HTTP, DNS, TLS, ...).
// Implementations resolve every failure mode into a CheckResult; they never
// panic and never propagate errors to the caller.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
