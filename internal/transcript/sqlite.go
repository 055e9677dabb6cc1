package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/talentscout/screener/internal/interview"
)

const transcriptsSchema = `CREATE TABLE IF NOT EXISTS transcripts (
	key             TEXT PRIMARY KEY,
	candidate_name  TEXT NOT NULL,
	candidate_email TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	record          TEXT NOT NULL
)`

// SQLiteStore keeps transcripts in a single sqlite table, one row per
// session, with the full record as a JSON blob next to a few query columns.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens (creating if needed) the transcript database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening transcript database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging transcript database: %w", err)
	}

	// sqlite supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(transcriptsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing transcript schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Persist inserts the session record and returns its storage key.
func (s *SQLiteStore) Persist(ctx context.Context, session *interview.Session) (string, error) {
	record := NewRecord(session)
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshaling transcript: %w", err)
	}

	now := s.now()
	key := storageKey(now)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcripts (key, candidate_name, candidate_email, created_at, record) VALUES (?, ?, ?, ?, ?)`,
		key, record.CandidateInfo.Name, record.CandidateInfo.Email, now.UTC().Format(time.RFC3339), string(data),
	)
	if err != nil {
		return "", fmt.Errorf("inserting transcript: %w", err)
	}

	return key, nil
}

// Load returns the raw record stored under key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM transcripts WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("loading transcript %q: %w", key, err)
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("decoding transcript %q: %w", key, err)
	}
	return &record, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
