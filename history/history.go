// Package history keeps past analyses in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/attachment"
)

// ErrNotFound is returned by Get for an unknown id
var ErrNotFound = errors.New("analysis not found")

// FileRef records an attachment without its payload
type FileRef struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`
}

// Entry is one saved analysis
type Entry struct {
	ID        string
	CreatedAt time.Time
	Prompt    string
	Files     []FileRef
	Result    analysis.Result
}

// Store wraps the history database
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	prompt TEXT NOT NULL,
	files_json TEXT NOT NULL,
	result_json TEXT NOT NULL,
	overall_risk TEXT NOT NULL,
	risk_score REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

// Open creates the database file and schema if needed
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection keeps :memory: databases consistent across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records an analysis and returns its id
func (s *Store) Save(ctx context.Context, prompt string, files []attachment.File, result *analysis.Result) (string, error) {
	if result == nil {
		return "", errors.New("nil result")
	}

	refs := make([]FileRef, 0, len(files))
	for _, f := range files {
		refs = append(refs, FileRef{Name: f.Name, MIME: f.MIME, Size: f.Size})
	}
	filesJSON, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("failed to encode files: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, prompt, files_json, result_json, overall_risk, risk_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UnixNano(), prompt, string(filesJSON), string(resultJSON),
		string(result.OverallRisk), result.RiskScore)
	if err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// List returns the newest entries first, limit <= 0 means all
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, prompt, files_json, result_json
		 FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads one entry, a unique id prefix is accepted
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	if id == "" {
		return Entry{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, prompt, files_json, result_json
		 FROM analyses WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, id+"%", id)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load analysis: %w", err)
	}
	defer rows.Close()

	var found []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Entry{}, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, err
	}

	switch {
	case len(found) == 0:
		return Entry{}, ErrNotFound
	case found[0].ID == id, len(found) == 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("ambiguous id prefix %q", id)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e          Entry
		created    int64
		filesJSON  string
		resultJSON string
	)
	if err := row.Scan(&e.ID, &created, &e.Prompt, &filesJSON, &resultJSON); err != nil {
		return Entry{}, fmt.Errorf("failed to read analysis: %w", err)
	}
	e.CreatedAt = time.Unix(0, created)
	if err := json.Unmarshal([]byte(filesJSON), &e.Files); err != nil {
		return Entry{}, fmt.Errorf("failed to decode files: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
		return Entry{}, fmt.Errorf("failed to decode result: %w", err)
	}
	return e, nil
}
