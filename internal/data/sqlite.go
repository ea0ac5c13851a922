package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// sqliteRepo persists monitors in SQLite. Save keeps the full-rewrite
// contract: one transaction deletes every row and reinserts the collection,
// so the table always mirrors the in-memory store.
type sqliteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo creates a SQLite monitor repository
func NewSQLiteRepo(dbPath string) (repo.MonitorRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS monitors (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			channel_id TEXT NOT NULL,
			guild_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			status TEXT NOT NULL,
			reactions TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &sqliteRepo{db: db}, nil
}

// Load reads all monitors in store order
func (r *sqliteRepo) Load(ctx context.Context) ([]domain.Monitor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, channel_id, guild_id, message_id, status, reactions, created_at
		FROM monitors
		ORDER BY position
	`)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	monitors := []domain.Monitor{}
	for rows.Next() {
		var m domain.Monitor
		var status, reactions string
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.GuildID, &m.MessageID, &status, &reactions, &createdAt); err != nil {
			return nil, &domain.StorageError{Op: "load", Err: err}
		}
		if err := json.Unmarshal([]byte(reactions), &m.Reactions); err != nil {
			return nil, &domain.StorageError{Op: "load", Err: fmt.Errorf("failed to parse reactions for monitor %s: %w", m.ID, err)}
		}
		m.Status = domain.MonitorStatus(status)
		m.CreatedAt = time.Unix(createdAt, 0)
		monitors = append(monitors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}

	return monitors, nil
}

// Save rewrites the full monitor record in one transaction
func (r *sqliteRepo) Save(ctx context.Context, monitors []domain.Monitor) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM monitors`); err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}

	for i, m := range monitors {
		reactions, err := json.Marshal(m.Reactions)
		if err != nil {
			return &domain.StorageError{Op: "save", Err: err}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO monitors (position, id, channel_id, guild_id, message_id, status, reactions, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, i, m.ID, m.ChannelID, m.GuildID, m.MessageID, string(m.Status), string(reactions), m.CreatedAt.Unix())
		if err != nil {
			return &domain.StorageError{Op: "save", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	return nil
}

// Close closes the database connection
func (r *sqliteRepo) Close() error {
	return r.db.Close()
}
