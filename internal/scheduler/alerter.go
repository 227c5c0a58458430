package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/liveprobe/liveprobe/internal/notify"
	"github.com/liveprobe/liveprobe/internal/repo"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
	PollInterval    time.Duration
}

// Alerter scans the latest result per target and notifies on up/down
// transitions. Repeated DOWN alerts are suppressed within the cooldown;
// recovery alerts bypass it.
type Alerter struct {
	results  repo.ResultStore
	alertDB  repo.AlertStore
	notifier notify.Notifier
	cfg      AlerterConfig
}

func NewAlerter(results repo.ResultStore, alertDB repo.AlertStore, notifier notify.Notifier, cfg AlerterConfig) *Alerter {
	return &Alerter{
		results:  results,
		alertDB:  alertDB,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (a *Alerter) Run(ctx context.Context) error {
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	// initial pass
	_ = a.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			_ = a.scanOnce(ctx)
		}
	}
}

func (a *Alerter) scanOnce(ctx context.Context) error {
	rows, err := a.results.Latest(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, r := range rows {
		rec, _ := a.alertDB.Get(ctx, r.TargetID)

		stateChanged := rec == nil || rec.LastState != r.Up

		// cooldown only suppresses repeated DOWN alerts
		cooled := true
		if rec != nil && rec.LastSentAt != nil {
			cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
		}

		downAlert := stateChanged && !r.Up && cooled
		recoveryAlert := stateChanged && r.Up && a.cfg.AlertOnRecovery

		if !downAlert && !recoveryAlert {
			// state changed but nothing sent (cooldown, or recovery alerts
			// disabled): still record the new state, without a send time
			if stateChanged {
				_ = a.alertDB.Set(ctx, r.TargetID, r.Up, time.Time{})
			}
			continue
		}

		title := "Endpoint DOWN"
		if r.Up {
			title = "Endpoint RECOVERED"
		}
		_ = a.notifier.Send(ctx, title, formatAlert(r))
		_ = a.alertDB.Set(ctx, r.TargetID, r.Up, now)
	}

	return nil
}

func formatAlert(r repo.LatestRow) string {
	httpTxt := "n/a"
	if r.HTTPStatus != nil {
		httpTxt = fmt.Sprintf("%d", *r.HTTPStatus)
	}
	latencyTxt := "n/a"
	if r.LatencyMS != nil {
		latencyTxt = fmt.Sprintf("%.0f ms", *r.LatencyMS)
	}
	return fmt.Sprintf(
		"URL: %s\nHTTP: %s\nLatency: %s\nReason: %s\nChecked: %s",
		r.URL, httpTxt, latencyTxt, r.Reason, r.CheckedAt.Format(time.RFC3339),
	)
}
