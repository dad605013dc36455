package form

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactform/contactform/internal/database"
	"github.com/contactform/contactform/internal/model"
)

func testSessionStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, &State{}, st)

	saved := &State{
		Record:  model.Submission{Name: "Ann", Phone: "555"},
		Message: MessageFailure,
	}
	require.NoError(t, store.Save(ctx, "abc", saved))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	// the store holds a copy
	loaded.Record.Name = "Bob"
	again, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Record.Name)
}

func TestMemorySessionStore(t *testing.T) {
	testSessionStore(t, NewMemorySessionStore())
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := &database.Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer rdb.Close()

	store := NewRedisSessionStore(rdb, time.Hour)
	testSessionStore(t, store)

	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+"abc"))

	mr.FastForward(2 * time.Hour)
	st, err := store.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, &State{}, st)
}

func TestRedisSessionStore_CorruptData(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := &database.Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer rdb.Close()

	require.NoError(t, mr.Set(sessionKeyPrefix+"bad", "not json"))

	_, err := NewRedisSessionStore(rdb, 0).Load(context.Background(), "bad")

	assert.ErrorContains(t, err, "decode form session")
}
