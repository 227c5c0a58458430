package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/liveprobe/liveprobe/internal/domain"
	"github.com/liveprobe/liveprobe/internal/probe"
	"github.com/liveprobe/liveprobe/internal/repo"
)

// Rechecker re-probes every stored target on a fixed interval. Each pass is
// one ProbeAll over the current target list, so all targets of a pass are
// checked concurrently and the pass ends only when the last check reports.
type Rechecker struct {
	Logger   *zap.Logger
	Targets  repo.TargetStore
	Results  repo.ResultStore
	Prober   *probe.Prober
	Interval time.Duration
}

func NewRechecker(
	logger *zap.Logger,
	ts repo.TargetStore,
	rs repo.ResultStore,
	p *probe.Prober,
	interval time.Duration,
) *Rechecker {
	if interval < 0 {
		interval = 0
	}
	return &Rechecker{
		Logger:   logger,
		Targets:  ts,
		Results:  rs,
		Prober:   p,
		Interval: interval,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Rechecker) Run(ctx context.Context) {
	if r.Interval == 0 {
		// disabled
		r.Logger.Info("rechecker_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	// immediate pass
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("rechecker_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Rechecker) runOnce(ctx context.Context) {
	ts, err := r.Targets.List(ctx)
	if err != nil {
		r.Logger.Warn("rechecker_list_error", zap.Error(err))
		return
	}
	if len(ts) == 0 {
		return
	}

	urls := make([]probe.Endpoint, 0, len(ts))
	for _, t := range ts {
		urls = append(urls, t.URL)
	}

	set := r.Prober.ProbeAll(ctx, urls)

	// targets are unique by URL, so indexing the set by endpoint is safe
	byURL := make(map[string]probe.ProbeResult, len(set))
	for _, pr := range set {
		byURL[pr.Endpoint] = pr
	}

	now := time.Now().UTC()
	for _, t := range ts {
		pr := byURL[t.URL]
		cr := &domain.CheckResult{
			TargetID:   t.ID,
			Up:         pr.Reachable,
			HTTPStatus: pr.StatusCode,
			LatencyMS:  pr.LatencyMS,
			Reason:     pr.Reason,
			CheckedAt:  now,
		}
		if err := r.Results.Append(ctx, cr); err != nil {
			r.Logger.Warn("rechecker_append_error",
				zap.String("target_id", string(t.ID)),
				zap.String("url", t.URL),
				zap.Error(err),
			)
			continue
		}
		r.Logger.Debug("rechecker_checked",
			zap.String("target_id", string(t.ID)),
			zap.String("url", t.URL),
			zap.Int("status", pr.StatusCode),
			zap.Bool("up", pr.Reachable),
			zap.Float64("latency_ms", pr.LatencyMS),
		)
	}

	r.Logger.Info("rechecker_pass",
		zap.Int("targets", len(ts)),
		zap.Int("up", set.Up()),
		zap.Int("down", set.Down()),
	)
}
