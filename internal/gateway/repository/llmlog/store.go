// Package llmlog persists an audit row per provider call, mirroring the
// llm_logs table. With no DSN configured it degrades to an in-memory ring
// so the call path never depends on the database being up.
package llmlog

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"prismdocs/internal/llm"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS llm_logs (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	purpose TEXT NOT NULL,
	provider TEXT,
	model TEXT,
	prompt TEXT,
	response TEXT,
	latency_ms BIGINT,
	error TEXT
)`

const memoryRingSize = 256

type Store struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	mu     sync.Mutex
	recent []llm.CallRecord
}

// New returns an in-memory store.
func New() *Store {
	return &Store{}
}

// NewPostgres opens a pgx-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewFromEnv uses LLM_LOG_PG_DSN when set, falling back to memory.
func NewFromEnv() *Store {
	dsn := strings.TrimSpace(os.Getenv("LLM_LOG_PG_DSN"))
	if dsn == "" {
		return New()
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		log.Printf("llmlog: postgres unavailable, using memory store: %v", err)
		return New()
	}
	return s
}

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, schemaSQL)
	})
	return s.schemaErr
}

// Record implements llm.Recorder. Failures are logged, never propagated.
func (s *Store) Record(ctx context.Context, rec llm.CallRecord) {
	if s == nil {
		return
	}
	if s.db == nil {
		s.mu.Lock()
		s.recent = append(s.recent, rec)
		if len(s.recent) > memoryRingSize {
			s.recent = s.recent[len(s.recent)-memoryRingSize:]
		}
		s.mu.Unlock()
		return
	}
	if err := s.ensureSchema(ctx); err != nil {
		log.Printf("llmlog: ensure schema failed: %v", err)
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO llm_logs (created_at, purpose, provider, model, prompt, response, latency_ms, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		time.Now().UTC(), rec.Purpose, rec.Provider, rec.Model, rec.Prompt, rec.Response, rec.LatencyMS, rec.Error,
	)
	if err != nil {
		log.Printf("llmlog: insert failed: %v", err)
	}
}

// Recent returns the buffered records (memory mode only), newest last.
func (s *Store) Recent() []llm.CallRecord {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.CallRecord(nil), s.recent...)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
