// Package store keeps finished battle results.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"hexbattle/internal/combat"
)

var ErrNotFound = errors.New("battle result not found")

// Record is one finished battle.
type Record struct {
	ID        string           `json:"id"`
	Board     string           `json:"board"`
	Seed      int64            `json:"seed"`
	CreatedAt time.Time        `json:"created_at"`
	Result    combat.SimResult `json:"result"`
}

type ResultStore interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	// Recent lists up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// MemoryStore is a ResultStore for tests and single-process runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New("save: empty record id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
