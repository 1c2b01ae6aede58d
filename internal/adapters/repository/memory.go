package repository

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultHistory = 16

// MemoryStore keeps the latest snapshots in process memory. Reads of the
// latest snapshot are lock-free.
type MemoryStore struct {
	mu      sync.RWMutex
	history int
	ring    []Snapshot
	byID    map[string]int

	latest atomic.Pointer[Snapshot]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a memory store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		history: defaultHistory,
		byID:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.Save. The table is cloned so later changes by the
// caller do not leak into stored snapshots.
func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Table != nil {
		snap.Table = snap.Table.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = append(s.ring, snap)
	if len(s.ring) > s.history {
		s.ring = append([]Snapshot(nil), s.ring[len(s.ring)-s.history:]...)
	}
	s.byID = make(map[string]int, len(s.ring))
	for i := range s.ring {
		s.byID[s.ring[i].ID] = i
	}
	s.latest.Store(&snap)
	return nil
}

// Latest implements Store.Latest.
func (s *MemoryStore) Latest(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	snap := s.latest.Load()
	if snap == nil {
		return Snapshot{}, ErrNotFound
	}
	return *snap, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return s.ring[i], nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ring), nil
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error { return nil }
