package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contactform/contactform/internal/database"
)

// SessionStore keeps one State per browser session.
type SessionStore interface {
	// Load returns the session's state, or a fresh empty State if there is none.
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, st *State) error
}

// MemorySessionStore keeps states in process memory.
type MemorySessionStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{states: make(map[string]State)}
}

// Load returns a copy of the stored state.
func (m *MemorySessionStore) Load(ctx context.Context, id string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.states[id]
	return &st, nil
}

// Save stores a copy of st.
func (m *MemorySessionStore) Save(ctx context.Context, id string, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = *st
	return nil
}

const sessionKeyPrefix = "form_session:"

// RedisSessionStore keeps states in Redis as JSON, expiring after ttl of inactivity.
type RedisSessionStore struct {
	rdb *database.Redis
	ttl time.Duration
}

// NewRedisSessionStore creates a RedisSessionStore.
func NewRedisSessionStore(rdb *database.Redis, ttl time.Duration) *RedisSessionStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Load reads and decodes the session state.
func (r *RedisSessionStore) Load(ctx context.Context, id string) (*State, error) {
	data, err := r.rdb.GetBytes(ctx, sessionKeyPrefix+id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to load form session: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode form session: %w", err)
	}
	return &st, nil
}

// Save encodes and writes the session state, refreshing its TTL.
func (r *RedisSessionStore) Save(ctx context.Context, id string, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode form session: %w", err)
	}
	if err := r.rdb.SetWithTTL(ctx, sessionKeyPrefix+id, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save form session: %w", err)
	}
	return nil
}
