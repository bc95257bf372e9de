// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package viewcache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	hits   int
	misses int
}

func (o *recordingObserver) ObserveViewCache(_ string, hit bool) {
	if hit {
		o.hits++
		return
	}
	o.misses++
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisWithClient(client, time.Minute), mr
}

func storeContract(t *testing.T, store Store) {
	t.Helper()

	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	gen, err := store.Generation(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, ok, err := store.Get(ctx, alice, gen, ViewReadings)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, alice, 0, ViewReadings, []byte(`[1]`)))
	require.NoError(t, store.Set(ctx, alice, 0, ViewCalendar, []byte(`[2]`)))
	require.NoError(t, store.Set(ctx, bob, 0, ViewReadings, []byte(`[3]`)))

	data, ok, err := store.Get(ctx, alice, 0, ViewReadings)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(data))

	require.NoError(t, store.Invalidate(ctx, alice))

	gen, err = store.Generation(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	for _, view := range []string{ViewReadings, ViewCalendar} {
		_, ok, err = store.Get(ctx, alice, gen, view)
		require.NoError(t, err)
		assert.False(t, ok, "view %s should be invalidated", view)
	}

	gen, err = store.Generation(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen, "other patients keep their generation")

	data, ok, err = store.Get(ctx, bob, gen, ViewReadings)
	require.NoError(t, err)
	require.True(t, ok, "other patients must keep their views")
	assert.Equal(t, `[3]`, string(data))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	storeContract(t, NewMemory(time.Minute))
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedis(t)
	storeContract(t, store)
}

func TestRedisStoreExpires(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedis(t)
	ctx := context.Background()
	patient := uuid.New()

	require.NoError(t, store.Set(ctx, patient, 0, ViewSummaries, []byte("x")))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, patient, 0, ViewSummaries)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFallsBackToMemory(t *testing.T) {
	t.Parallel()

	store, err := New(context.Background(), "", 0)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	_, err = New(context.Background(), "://bad", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFetchMemoizes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemory(time.Minute)
	obs := &recordingObserver{}
	patient := uuid.New()
	calls := 0

	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	for i := 0; i < 3; i++ {
		data, err := Fetch(ctx, store, obs, patient, ViewCalendar, load)
		require.NoError(t, err)
		assert.Equal(t, "rendered", string(data))
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, obs.hits)
	assert.Equal(t, 1, obs.misses)

	require.NoError(t, store.Invalidate(ctx, patient))

	_, err := Fetch(ctx, store, obs, patient, ViewCalendar, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchDiscardsRenderOverlappingInvalidate(t *testing.T) {
	t.Parallel()

	redisStore, _ := newTestRedis(t)
	stores := map[string]Store{
		"memory": NewMemory(time.Minute),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			patient := uuid.New()
			events := `{"events":[]}`

			// The render reads its sources, then a write lands and
			// invalidates before the render is stored.
			stale := func(ctx context.Context) ([]byte, error) {
				snapshot := events
				events = `{"events":[{"kind":"requested"}]}`
				require.NoError(t, store.Invalidate(ctx, patient))

				return []byte(snapshot), nil
			}

			data, err := Fetch(ctx, store, nil, patient, ViewCalendar, stale)
			require.NoError(t, err)
			assert.Equal(t, `{"events":[]}`, string(data))

			fresh := func(context.Context) ([]byte, error) {
				return []byte(events), nil
			}

			data, err = Fetch(ctx, store, nil, patient, ViewCalendar, fresh)
			require.NoError(t, err)
			assert.Equal(t, `{"events":[{"kind":"requested"}]}`, string(data))
		})
	}
}

func TestMemoryInvalidateUnknownPatient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemory(time.Minute)
	patient := uuid.New()

	require.NoError(t, store.Invalidate(ctx, patient))
	require.NoError(t, store.Invalidate(ctx, patient))

	gen, err := store.Generation(ctx, patient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestFetchPropagatesLoadErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := NewMemory(time.Minute)

	_, err := Fetch(context.Background(), store, nil, uuid.New(), ViewReadings, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestFetchWithoutStore(t *testing.T) {
	t.Parallel()

	data, err := Fetch(context.Background(), nil, nil, uuid.New(), ViewReadings, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}
