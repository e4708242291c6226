package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"cricket-hub/database"
	"cricket-hub/pkg/models"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// RefreshStore 刷新记录存储
type RefreshStore struct {
	db *sql.DB
}

func NewRefreshStore(db *sql.DB) *RefreshStore {
	return &RefreshStore{db: db}
}

func (s *RefreshStore) Name() string { return "postgres" }

// OnRefresh implements RefreshSink
func (s *RefreshStore) OnRefresh(ctx context.Context, _ *models.Board, event models.RefreshEvent) error {
	return s.SaveRefresh(ctx, event)
}

// SaveRefresh 保存一次刷新记录
func (s *RefreshStore) SaveRefresh(ctx context.Context, event models.RefreshEvent) error {
	query := `
		INSERT INTO refresh_log (refresh_id, source, status_filter, result, error,
			raw_count, accepted_count, dropped_count, shown_count, live_ids, elapsed_ms, refreshed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (refresh_id) DO NOTHING
	`

	var errPtr *string
	if event.Error != "" {
		errPtr = &event.Error
	}

	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.Source, string(event.Status), string(event.Result), errPtr,
		event.Raw, event.Accepted, event.Dropped, event.Matches,
		pq.Array(event.LiveIDs), event.Elapsed.Milliseconds(), event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save refresh %s: %w", event.ID, err)
	}
	return nil
}

// Recent 查询最近的刷新记录，按时间倒序
func (s *RefreshStore) Recent(ctx context.Context, limit int) ([]database.RefreshLog, error) {
	query := `
		SELECT id, refresh_id, source, status_filter, result, error,
			raw_count, accepted_count, dropped_count, shown_count, live_ids, elapsed_ms, refreshed_at
		FROM refresh_log
		ORDER BY refreshed_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query refresh log: %w", err)
	}
	defer rows.Close()

	logs := []database.RefreshLog{}
	for rows.Next() {
		var l database.RefreshLog
		if err := rows.Scan(&l.ID, &l.RefreshID, &l.Source, &l.Status, &l.Result, &l.Error,
			&l.Raw, &l.Accepted, &l.Dropped, &l.Shown, pq.Array(&l.LiveIDs), &l.ElapsedMs, &l.RefreshedAt); err != nil {
			return nil, fmt.Errorf("failed to scan refresh log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ClampLimit keeps a requested page size within [1, maxRecentLimit]; zero or
// negative means the default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxRecentLimit:
		return maxRecentLimit
	}
	return limit
}
