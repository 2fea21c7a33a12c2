package cartsession

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-instance
// development. Safe for concurrent use. Semantics mirror the Postgres
// adapter: atomic upsert per key, CreatedAt preserved on update.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Record)}
}

// Get returns the record for the key, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rows[key]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Value = append([]byte(nil), rec.Value...)
	return &rec, nil
}

// Upsert inserts or replaces the row, preserving CreatedAt on update.
func (s *MemoryStore) Upsert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Value = append([]byte(nil), rec.Value...)
	if existing, ok := s.rows[rec.Key]; ok {
		rec.CreatedAt = existing.CreatedAt
	}
	s.rows[rec.Key] = rec
	return nil
}

// Delete removes the row. Missing keys are not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key)
	return nil
}

// UpdateExpiry rewrites only the expiry column.
func (s *MemoryStore) UpdateExpiry(ctx context.Context, key string, expiresAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[key]
	if !ok {
		return ErrNotFound
	}
	rec.ExpiresAt = expiresAt
	s.rows[key] = rec
	return nil
}

// DeleteWhereExpired removes rows with expiry at or before now.
func (s *MemoryStore) DeleteWhereExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, rec := range s.rows {
		if rec.Expired(now) {
			delete(s.rows, key)
			n++
		}
	}
	return n, nil
}

// CountActive returns the number of unexpired rows.
func (s *MemoryStore) CountActive(ctx context.Context, now time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.rows {
		if !rec.Expired(now) {
			n++
		}
	}
	return n, nil
}

// CountExpired returns the number of expired rows not yet reaped.
func (s *MemoryStore) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.rows {
		if rec.Expired(now) {
			n++
		}
	}
	return n, nil
}

// DeleteAll removes every row.
func (s *MemoryStore) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.rows))
	s.rows = make(map[string]Record)
	return n, nil
}

// InsertMissing inserts records whose keys are not yet present.
func (s *MemoryStore) InsertMissing(ctx context.Context, recs []Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, rec := range recs {
		if _, ok := s.rows[rec.Key]; ok {
			continue
		}
		rec.Value = append([]byte(nil), rec.Value...)
		s.rows[rec.Key] = rec
		n++
	}
	return n, nil
}

// Len returns the number of rows currently held. Intended for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
