package todo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is a simple in-memory repository used for unit tests and
// local development without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*memEntry
	seq   int
}

type memEntry struct {
	t   Todo
	seq int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*memEntry)}
}

func (m *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := []*memEntry{}
	for _, e := range m.store {
		if e.t.OwnerID == ownerID {
			entries = append(entries, e)
		}
	}
	// newest first, matching the Mongo sort on creationDate; insertion order
	// breaks ties for todos created within the clock resolution
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].t.CreatedAt.Equal(entries[j].t.CreatedAt) {
			return entries[i].seq > entries[j].seq
		}
		return entries[i].t.CreatedAt.After(entries[j].t.CreatedAt)
	})
	out := make([]*Todo, 0, len(entries))
	for _, e := range entries {
		cp := e.t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.store[id]; ok {
		cp := e.t
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Create(ctx context.Context, t *Todo) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		b := make([]byte, 12)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		t.ID = hex.EncodeToString(b)
	}
	t.CreatedAt = time.Now().UTC()
	m.seq++
	m.store[t.ID] = &memEntry{t: *t, seq: m.seq}
	return t.ID, nil
}

func (m *MemoryRepository) Save(ctx context.Context, t *Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[t.ID]
	if !ok {
		return ErrNotFound
	}
	e.t.Title = t.Title
	e.t.Details = t.Details
	e.t.DueDate = t.DueDate
	return nil
}

func (m *MemoryRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok || e.t.OwnerID != ownerID {
		return 0, nil
	}
	delete(m.store, id)
	return 1, nil
}
