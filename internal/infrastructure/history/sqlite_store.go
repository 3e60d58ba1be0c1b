package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/gng-assistant/internal/domain"
	"github.com/doeshing/gng-assistant/internal/pkg/filesystem"
	"github.com/doeshing/gng-assistant/internal/ports"
)

// SQLiteStore persists turn history in a SQLite database. When the database
// cannot be opened it degrades to a JSON-lines file next to it.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	fallback := NewFileStore(fallbackPath(path))
	if err := filesystem.EnsureParentDir(path); err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func fallbackPath(path string) string {
	return path + ".jsonl"
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS turns (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		text TEXT,
		intent TEXT,
		strategy TEXT,
		dry_run INTEGER,
		success INTEGER,
		action TEXT,
		time TEXT,
		error TEXT
	);`)
	return err
}

// Save implements ports.HistoryRepository.
func (s *SQLiteStore) Save(ctx context.Context, record domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback.Save(ctx, record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO turns
		(id, timestamp, text, intent, strategy, dry_run, success, action, time, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.Format(time.RFC3339Nano),
		record.Text,
		record.Intent,
		string(record.Strategy),
		boolToInt(record.DryRun),
		boolToInt(record.Success),
		record.Action,
		record.Time,
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// Records returns the newest entries first; limit <= 0 returns all.
func (s *SQLiteStore) Records(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(ctx, limit)
	}
	query := `SELECT id, timestamp, text, intent, strategy, dry_run, success, action, time, error
		FROM turns ORDER BY seq DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, strategy string
		var dryRun, success int
		if err := rows.Scan(&rec.ID, &ts, &rec.Text, &rec.Intent, &strategy, &dryRun, &success, &rec.Action, &rec.Time, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Strategy = domain.Strategy(strategy)
		rec.DryRun = dryRun == 1
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return s.fallback.Clear(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM turns")
	return err
}

// Export writes every record, oldest first, as JSON lines.
func (s *SQLiteStore) Export(ctx context.Context, w io.Writer) error {
	records, err := s.Records(ctx, 0)
	if err != nil {
		return err
	}
	return writeLines(w, reversed(records))
}

// Path returns the backing store path.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func reversed(records []domain.HistoryRecord) []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	return out
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
