package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Connect 连接到数据库
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 设置连接池
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return db, nil
}

// Migrate 运行数据库迁移
func Migrate(db *sql.DB) error {
	migrations := []string{
		// 刷新记录表
		`CREATE TABLE IF NOT EXISTS refresh_log (
			id BIGSERIAL PRIMARY KEY,
			refresh_id VARCHAR(64) UNIQUE NOT NULL,
			source VARCHAR(20) NOT NULL,
			status_filter VARCHAR(20) NOT NULL,
			result VARCHAR(32) NOT NULL,
			error TEXT,
			raw_count INTEGER NOT NULL DEFAULT 0,
			accepted_count INTEGER NOT NULL DEFAULT 0,
			dropped_count INTEGER NOT NULL DEFAULT 0,
			shown_count INTEGER NOT NULL DEFAULT 0,
			live_ids TEXT[],
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			refreshed_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_log_refreshed_at ON refresh_log(refreshed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_log_result ON refresh_log(result)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
