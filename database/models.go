package database

import (
	"time"
)

// RefreshLog 一次刷新的记录
type RefreshLog struct {
	ID          int64     `db:"id" json:"id"`
	RefreshID   string    `db:"refresh_id" json:"refresh_id"`
	Source      string    `db:"source" json:"source"`
	Status      string    `db:"status_filter" json:"status"`
	Result      string    `db:"result" json:"result"`
	Error       *string   `db:"error" json:"error,omitempty"`
	Raw         int       `db:"raw_count" json:"raw"`
	Accepted    int       `db:"accepted_count" json:"accepted"`
	Dropped     int       `db:"dropped_count" json:"dropped"`
	Shown       int       `db:"shown_count" json:"shown"`
	LiveIDs     []string  `db:"live_ids" json:"live_ids,omitempty"`
	ElapsedMs   int64     `db:"elapsed_ms" json:"elapsed_ms"`
	RefreshedAt time.Time `db:"refreshed_at" json:"refreshed_at"`
}
