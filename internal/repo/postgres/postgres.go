package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/liveprobe/liveprobe/internal/domain"
	"github.com/liveprobe/liveprobe/internal/repo"
)

var (
	_ repo.TargetStore = (*Store)(nil)
	_ repo.ResultStore = (*Store)(nil)
	_ repo.AlertStore  = (*Store)(nil)
)

// Store persists targets, results and alert state in Postgres.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ---- TargetStore ----

func (s *Store) Add(ctx context.Context, t *domain.Target) error {
	if t.ID == "" {
		t.ID = domain.TargetID(makeID())
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO targets (id, url, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (url) DO NOTHING`,
		string(t.ID), t.URL, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert target: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Target, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, url, created_at
		   FROM targets
		  ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var out []*domain.Target
	for rows.Next() {
		var (
			id        string
			url       string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &url, &createdAt); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, &domain.Target{
			ID:        domain.TargetID(id),
			URL:       url,
			CreatedAt: createdAt,
		})
	}
	return out, rows.Err()
}

func (s *Store) GetByURL(ctx context.Context, url string) (*domain.Target, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, url, created_at FROM targets WHERE url = $1`, url)
	var t domain.Target
	if err := row.Scan(&t.ID, &t.URL, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get target by url: %w", err)
	}
	return &t, nil
}

// ---- ResultStore ----

func (s *Store) Append(ctx context.Context, cr *domain.CheckResult) error {
	if cr.CheckedAt.IsZero() {
		cr.CheckedAt = time.Now().UTC()
	}
	var statusPtr *int
	if cr.HTTPStatus != 0 {
		statusPtr = &cr.HTTPStatus
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO results
		   (target_id, up, http_status, latency_ms, reason, checked_at)
		 VALUES
		   ($1, $2, $3, $4, $5, $6)`,
		string(cr.TargetID), cr.Up, statusPtr, cr.LatencyMS, cr.Reason, cr.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context) ([]repo.LatestRow, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT ON (r.target_id)
       r.target_id,
       t.url,
       r.up,
       r.http_status,
       r.latency_ms,
       r.reason,
       r.checked_at
  FROM results r
  JOIN targets t ON t.id = r.target_id
 ORDER BY r.target_id, r.checked_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("latest: %w", err)
	}
	defer rows.Close()

	var out []repo.LatestRow
	for rows.Next() {
		var (
			row        repo.LatestRow
			httpStatus *int32
			latency    float64
		)
		if err := rows.Scan(&row.TargetID, &row.URL, &row.Up, &httpStatus, &latency, &row.Reason, &row.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan latest: %w", err)
		}
		if httpStatus != nil {
			v := int(*httpStatus)
			row.HTTPStatus = &v
		}
		lat := latency
		row.LatencyMS = &lat
		out = append(out, row)
	}
	return out, rows.Err()
}

// ---- AlertStore ----

func (s *Store) Get(ctx context.Context, targetID string) (*repo.AlertRecord, error) {
	var r repo.AlertRecord
	r.TargetID = targetID
	var lastSent *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT last_state, last_sent_at FROM alerts WHERE target_id = $1`,
		targetID).Scan(&r.LastState, &lastSent)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert record: %w", err)
	}
	r.LastSentAt = lastSent
	return &r, nil
}

func (s *Store) Set(ctx context.Context, targetID string, lastState bool, sentAt time.Time) error {
	var ts *time.Time
	if !sentAt.IsZero() {
		ts = &sentAt
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO alerts (target_id, last_state, last_sent_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (target_id)
		 DO UPDATE SET last_state = EXCLUDED.last_state, last_sent_at = EXCLUDED.last_sent_at`,
		targetID, lastState, ts,
	)
	if err != nil {
		return fmt.Errorf("set alert record: %w", err)
	}
	return nil
}

// ID format matches the memory store: 20060102Thhmmss.nnnnnnnnn
func makeID() string {
	now := time.Now().UTC()
	return now.Format("20060102T150405.") + fmt.Sprintf("%09d", now.Nanosecond())
}
