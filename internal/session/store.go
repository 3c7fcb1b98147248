package session

import (
	"context"
	"sync"
	"time"

	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/structures"
)

type Store interface {
	Get(ctx context.Context, id string) (models.PagerState, bool, error)
	Put(ctx context.Context, id string, state models.PagerState) error
	Count() int
}

// Snapshotter is implemented by stores that keep sessions in process memory
// and therefore need to be written to disk between restarts.
type Snapshotter interface {
	Snapshot() map[string]models.PagerState
	Restore(states map[string]models.PagerState)
	EvictIdle(now time.Time) int
}

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]models.PagerState
	ttl    time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		states: make(map[string]models.PagerState),
		ttl:    ttl,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (models.PagerState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[id]
	if ok && m.expired(state, time.Now()) {
		return models.PagerState{}, false, nil
	}
	return state, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, id string, state models.PagerState) error {
	if state.LastSeen.IsZero() {
		state.LastSeen = time.Now()
	}
	m.mu.Lock()
	m.states[id] = state
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

func (m *MemoryStore) Snapshot() map[string]models.PagerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]models.PagerState, len(m.states))
	for id, state := range m.states {
		out[id] = state
	}
	return out
}

func (m *MemoryStore) Restore(states map[string]models.PagerState) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, state := range states {
		if !state.Valid() || m.expired(state, now) {
			continue
		}
		m.states[id] = state
	}
}

func (m *MemoryStore) EvictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, state := range m.states {
		if m.expired(state, now) {
			delete(m.states, id)
			evicted++
		}
	}
	return evicted
}

func (m *MemoryStore) expired(state models.PagerState, now time.Time) bool {
	return m.ttl > 0 && now.Sub(state.LastSeen) > m.ttl
}

func NewStore(conf *structures.Config, logger providers.Logger) (Store, error) {
	if conf.Session.Driver == "redis" {
		store, err := NewRedisStore(conf.Session.Redis, conf.Session.TTL)
		if err != nil {
			return nil, err
		}
		logger.Infof(providers.TypeApp, "Sessions stored in redis at %s", conf.Session.Redis.Addr)
		return store, nil
	}
	logger.Infof(providers.TypeApp, "Sessions stored in memory")
	return NewMemoryStore(conf.Session.TTL), nil
}
