// Package storage persists the routing history: one row per routing
// outcome, queryable for audit.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thiri-win/helix/internal/model"
	"github.com/thiri-win/helix/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the HistoryStore interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// RecordOutcome inserts one routing outcome.
func (s *SQLiteStorage) RecordOutcome(ctx context.Context, outcome model.RouteOutcome) error {
	if outcome.Filename == "" {
		return fmt.Errorf("outcome filename cannot be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO routing_history
			(filename, status, archive_name, report_id, record_count, violation_count, routed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		outcome.Filename,
		string(outcome.Status),
		outcome.ArchiveName,
		outcome.ReportID,
		outcome.RecordCount,
		outcome.ViolationCount,
		outcome.RoutedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", outcome.Filename, err)
	}
	return nil
}

// ListOutcomes returns history entries matching the filter, newest first.
func (s *SQLiteStorage) ListOutcomes(ctx context.Context, filter service.HistoryFilter) ([]model.HistoryEntry, error) {
	query := `
		SELECT filename, status, report_id, record_count, violation_count, routed_at
		FROM routing_history`
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Since != nil {
		conditions = append(conditions, "routed_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY routed_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query routing history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var status, routedAt string
		if err := rows.Scan(&entry.Filename, &status, &entry.ReportID,
			&entry.RecordCount, &entry.ViolationCount, &routedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.Status = model.RouteStatus(status)
		if t, err := time.Parse(time.RFC3339, routedAt); err == nil {
			entry.RoutedAt = t
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read routing history: %w", err)
	}
	return entries, nil
}
