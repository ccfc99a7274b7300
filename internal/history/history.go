package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nlshell/nlsh/internal/config"
)

const HistoryFileName = "history.db"

// Entry is one recorded invocation
type Entry struct {
	Timestamp time.Time
	Request   string
	Command   string
	Executed  bool
}

// Store is the SQLite-backed invocation history
type Store struct {
	db *sql.DB
}

// GetHistoryPath returns the path to the history database
func GetHistoryPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HistoryFileName), nil
}

// Open opens the per-user history store, creating it if needed
func Open() (*Store, error) {
	path, err := GetHistoryPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt opens a history store at an explicit path
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		request TEXT NOT NULL,
		command TEXT NOT NULL,
		executed INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records one invocation
func (s *Store) Add(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	executed := 0
	if e.Executed {
		executed = 1
	}
	_, err := s.db.Exec(
		"INSERT INTO invocations (created_at, request, command, executed) VALUES (?, ?, ?, ?)",
		e.Timestamp.Format(time.RFC3339), e.Request, e.Command, executed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT created_at, request, command, executed FROM invocations ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		var executed int
		if err := rows.Scan(&createdAt, &e.Request, &e.Command, &executed); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.Timestamp = ts
		}
		e.Executed = executed != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
