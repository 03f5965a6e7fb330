package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mafufuyu/DriveLens/internal/detection"
)

// Store keeps a local history of dispatched captures and their parsed
// detections in SQLite.
type Store struct {
	conn *sql.DB
	mu   sync.Mutex
}

// Capture is one history row.
type Capture struct {
	ID         int64                 `json:"id"`
	SessionID  string                `json:"session_id"`
	Filename   string                `json:"filename"`
	Detections []detection.Detection `json:"detections"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return st, nil
}

// migrate creates the captures table if it does not exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		detected_objects TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_captures_session ON captures(session_id);
	CREATE INDEX IF NOT EXISTS idx_captures_timestamp ON captures(timestamp);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RecordCapture inserts one completed capture and returns its row id.
func (s *Store) RecordCapture(sessionID, filename string, set detection.Set) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, err := json.Marshal(set.Detections)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal detections: %w", err)
	}

	result, err := s.conn.Exec(`
		INSERT INTO captures (session_id, filename, detected_objects, timestamp)
		VALUES (?, ?, ?, ?)
	`, sessionID, filename, string(objects), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert capture: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns the newest capture rows, most recent first.
func (s *Store) Recent(limit int) ([]Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(`
		SELECT id, session_id, filename, detected_objects, timestamp
		FROM captures ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		var objects sql.NullString
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Filename, &objects, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		if objects.Valid && objects.String != "" {
			if err := json.Unmarshal([]byte(objects.String), &c.Detections); err != nil {
				return nil, fmt.Errorf("failed to decode detections for capture %d: %w", c.ID, err)
			}
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// SessionRecorder binds a Store to one capture session so the pipeline can
// record captures without knowing the session id.
type SessionRecorder struct {
	store     *Store
	sessionID string
}

func NewSessionRecorder(store *Store, sessionID string) *SessionRecorder {
	return &SessionRecorder{store: store, sessionID: sessionID}
}

func (r *SessionRecorder) RecordCapture(filename string, set detection.Set) error {
	_, err := r.store.RecordCapture(r.sessionID, filename, set)
	return err
}
