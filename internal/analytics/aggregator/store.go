// Package aggregator provides persistent storage and periodic snapshotting
// of aggregated summarization stats to PostgreSQL.
package aggregator

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/notewell/notesbot/internal/analytics"
	"github.com/notewell/notesbot/pkg/metrics"
	"github.com/notewell/notesbot/pkg/postgres"
	"github.com/notewell/notesbot/pkg/resilience"
)

// Store persists aggregated stats snapshots in PostgreSQL.
//
// It requires a `summary_snapshots` table:
//
//	CREATE TABLE summary_snapshots (
//	    id          BIGSERIAL PRIMARY KEY,
//	    data        JSONB NOT NULL,
//	    captured_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type Store struct {
	db     *postgres.Client
	m      *metrics.Metrics
	logger *slog.Logger
}

// NewStore creates a snapshot store. m may be nil.
func NewStore(db *postgres.Client, m *metrics.Metrics) *Store {
	return &Store{
		db:     db,
		m:      m,
		logger: slog.Default().With("component", "snapshot-store"),
	}
}

// SaveSnapshot persists a stats snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, stats analytics.AggregatedStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	_, err = s.db.DB.ExecContext(ctx,
		`INSERT INTO summary_snapshots (data, captured_at) VALUES ($1, $2)`,
		data, time.Now().UTC(),
	)
	if err != nil {
		if s.m != nil {
			s.m.SnapshotsSavedTotal.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("saving stats snapshot: %w", err)
	}
	if s.m != nil {
		s.m.SnapshotsSavedTotal.WithLabelValues("ok").Inc()
	}
	s.logger.Info("stats snapshot saved",
		"total_summaries", stats.TotalSummaries,
		"empty_summaries", stats.EmptySummaries,
	)
	return nil
}

// LatestSnapshot loads the most recent snapshot, or nil, nil if none exist.
func (s *Store) LatestSnapshot(ctx context.Context) (*analytics.AggregatedStats, error) {
	var data []byte
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT data FROM summary_snapshots ORDER BY captured_at DESC LIMIT 1`,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	var stats analytics.AggregatedStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return &stats, nil
}

// ListSnapshots returns the last N snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]analytics.AggregatedStats, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT data FROM summary_snapshots ORDER BY captured_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []analytics.AggregatedStats
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		var stats analytics.AggregatedStats
		if err := json.Unmarshal(data, &stats); err != nil {
			s.logger.Warn("skipping corrupt snapshot", "error", err)
			continue
		}
		snapshots = append(snapshots, stats)
	}
	return snapshots, rows.Err()
}

// StartPeriodicSave launches a goroutine that snapshots the aggregator's
// stats to the database on an interval, with a final snapshot on shutdown.
func (s *Store) StartPeriodicSave(ctx context.Context, agg *analytics.Aggregator, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		retry := resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
		}
		for {
			select {
			case <-ticker.C:
				err := resilience.Retry(ctx, "save-snapshot", retry, func() error {
					return s.SaveSnapshot(ctx, agg.Stats())
				})
				if err != nil {
					s.logger.Error("periodic snapshot failed", "error", err)
				}
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.SaveSnapshot(shutdownCtx, agg.Stats()); err != nil {
					s.logger.Error("final snapshot failed", "error", err)
				}
				return
			}
		}
	}()
	s.logger.Info("periodic snapshot started", "interval", interval)
}
