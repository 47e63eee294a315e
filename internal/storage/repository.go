package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/raulponte3/dashboard-cashflow/internal/core"

	_ "modernc.org/sqlite"
)

// StoredAnalysis is an AI analysis row as persisted locally, with the
// bookkeeping columns used by the spreadsheet write-back worker.
type StoredAnalysis struct {
	ID         int64
	Model      string
	Content    string
	CreatedAt  time.Time
	Version    int64
	SyncStatus string
	SyncedAt   sql.NullTime
}

// PendingSyncAnalysis is the minimal row shape needed to enqueue sync work.
type PendingSyncAnalysis struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveAnalysis stores a completed analysis and returns its ID and version.
func (r *SQLiteRepository) SaveAnalysis(ctx context.Context, a core.Analysis) (int64, int64, error) {
	if err := a.Validate(); err != nil {
		return 0, 0, err
	}

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO analyses (model, content, created_at) VALUES (?, ?, ?)`,
		a.Model, a.Content, createdAt)
	if err != nil {
		return 0, 0, fmt.Errorf("insert analysis: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Analysis saved to SQLite", "id", id, "model", a.Model)
	return id, 1, nil
}

// GetAnalysis retrieves a single analysis by ID.
func (r *SQLiteRepository) GetAnalysis(ctx context.Context, id int64) (*StoredAnalysis, error) {
	var a StoredAnalysis
	err := r.db.QueryRowContext(ctx,
		`SELECT id, model, content, created_at, version, sync_status, synced_at
		 FROM analyses WHERE id = ?`, id).
		Scan(&a.ID, &a.Model, &a.Content, &a.CreatedAt, &a.Version, &a.SyncStatus, &a.SyncedAt)
	if err != nil {
		return nil, fmt.Errorf("get analysis by id: %w", err)
	}
	return &a, nil
}

// GetPendingSync returns analyses not yet written back to the spreadsheet.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSyncAnalysis, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at FROM analyses
		 WHERE sync_status = 'pending'
		 ORDER BY created_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync analyses: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncAnalysis
	for rows.Next() {
		var p PendingSyncAnalysis
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending analysis: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending analyses: %w", err)
	}

	return pending, nil
}

// MarkSynced records a successful write-back.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE analyses SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark analysis synced: %w", err)
	}

	slog.InfoContext(ctx, "Analysis marked as synced", "id", id)
	return nil
}

// MarkSyncError flags an analysis whose write-back failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE analyses SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark analysis sync error: %w", err)
	}

	slog.WarnContext(ctx, "Analysis marked with sync error", "id", id)
	return nil
}
