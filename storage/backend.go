package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"smartbar/model"
)

// ErrNotFound is returned by a Backend when no transcript is stored for an id.
var ErrNotFound = errors.New("transcript not found")

// Backend stores one transcript per document id.
type Backend interface {
	Get(ctx context.Context, documentID string) (model.Transcript, error)
	Put(ctx context.Context, documentID string, transcript model.Transcript) error
	Delete(ctx context.Context, documentID string) error
	Clear(ctx context.Context) error
}

// MemoryBackend keeps transcripts for the lifetime of the process.
type MemoryBackend struct {
	mu          sync.RWMutex
	transcripts map[string]model.Transcript
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{transcripts: make(map[string]model.Transcript)}
}

func (b *MemoryBackend) Get(_ context.Context, documentID string) (model.Transcript, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.transcripts[documentID]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (b *MemoryBackend) Put(_ context.Context, documentID string, transcript model.Transcript) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transcripts[documentID] = transcript.Clone()
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, documentID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.transcripts, documentID)
	return nil
}

func (b *MemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.transcripts)
	return nil
}

// SQLiteBackend stores transcripts as JSON rows in the transcripts table.
// The caller owns db and closes it.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (b *SQLiteBackend) Get(ctx context.Context, documentID string) (model.Transcript, error) {
	var data string
	err := b.db.QueryRowContext(ctx,
		`SELECT messages FROM transcripts WHERE document_id = ?`, documentID,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var t model.Transcript
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return t, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, documentID string, transcript model.Transcript) error {
	data, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO transcripts (document_id, messages, updated_at)
	VALUES (?, ?, ?)
	`, documentID, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, documentID string) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM transcripts WHERE document_id = ?`, documentID)
	return err
}

func (b *SQLiteBackend) Clear(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM transcripts`)
	return err
}
