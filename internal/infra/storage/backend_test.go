package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"
	"calendrette/internal/infra/kvstore"
	"calendrette/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns successive minutes starting at 2025-01-01.
func tickingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newBackends(t *testing.T) map[string]period.Backend {
	t.Helper()
	local := NewLocalBackend(kvstore.NewMemoryStore()).WithClock(tickingClock())
	remote := NewRemoteBackend(testutil.NewMemoryCollection(), testutil.NewStaticAuth(auth.Authenticated("1"))).WithClock(tickingClock())
	return map[string]period.Backend{"local": local, "remote": remote}
}

func TestBackends_EmptyLoad(t *testing.T) {
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			records, err := b.Load(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestBackends_SaveIsIdempotentByStartDate(t *testing.T) {
	ctx := context.Background()
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			id, err := b.Save(ctx, period.Record{StartDate: "2025-01-01", PredictedDate: "2025-01-29"})
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			id, err = b.Save(ctx, period.Record{StartDate: "2025-01-01", PredictedDate: "2025-02-02"})
			require.NoError(t, err)
			assert.Empty(t, id)

			records, err := b.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "2025-01-29", records[0].PredictedDate)
		})
	}
}

func TestBackends_LoadNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			const n = 4
			for i := 1; i <= n; i++ {
				_, err := b.Save(ctx, period.Record{
					StartDate:     fmt.Sprintf("2025-0%d-01", i),
					PredictedDate: fmt.Sprintf("2025-0%d-28", i),
				})
				require.NoError(t, err)
			}

			records, err := b.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, n)
			for i := 1; i < n; i++ {
				assert.Greater(t, records[i-1].CreatedAt, records[i].CreatedAt)
			}
			assert.Equal(t, "2025-04-01", records[0].StartDate)
		})
	}
}

func TestBackends_Delete(t *testing.T) {
	ctx := context.Background()
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Delete(ctx, "does-not-exist"))
			records, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, records)

			keep, err := b.Save(ctx, period.Record{StartDate: "2025-01-01", PredictedDate: "2025-01-29"})
			require.NoError(t, err)
			drop, err := b.Save(ctx, period.Record{StartDate: "2025-02-01", PredictedDate: "2025-03-01"})
			require.NoError(t, err)

			require.NoError(t, b.Delete(ctx, drop))
			records, err = b.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, keep, records[0].ID)
		})
	}
}

func TestBackends_KeepProvidedCreatedAt(t *testing.T) {
	ctx := context.Background()
	for name, b := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Save(ctx, period.Record{ID: "foreign", StartDate: "2025-01-01", PredictedDate: "2025-01-29", CreatedAt: "2024-12-31T10:00:00.000Z"})
			require.NoError(t, err)

			records, err := b.Load(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "2024-12-31T10:00:00.000Z", records[0].CreatedAt)
			assert.NotEqual(t, "foreign", records[0].ID)
		})
	}
}

func TestLocalBackend_CorruptCollection(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(PeriodsKey, "{not json"))

	_, err := NewLocalBackend(store).Load(context.Background())
	assert.ErrorIs(t, err, period.ErrValidation)
}

func TestLocalBackend_ReplaceAllAssignsIDs(t *testing.T) {
	b := NewLocalBackend(kvstore.NewMemoryStore())
	require.NoError(t, b.ReplaceAll([]period.Record{
		{ID: "keep", StartDate: "2025-01-01"},
		{StartDate: "2025-02-01"},
	}))

	records, err := b.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "keep", records[0].ID)
	assert.NotEmpty(t, records[1].ID)
}

func TestRemoteBackend_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	coll := testutil.NewMemoryCollection()
	coll.Seed("1", period.Record{StartDate: "2025-01-01", PredictedDate: "2025-01-29", CreatedAt: "2025-01-01T00:00:00.000Z"})

	for _, state := range []auth.State{{}, auth.Unauthenticated()} {
		b := NewRemoteBackend(coll, testutil.NewStaticAuth(state))

		_, err := b.Save(ctx, period.Record{StartDate: "2025-02-01", PredictedDate: "2025-03-01"})
		assert.ErrorIs(t, err, period.ErrAuthenticationRequired)

		records, err := b.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		assert.ErrorIs(t, b.Delete(ctx, "1"), period.ErrAuthenticationRequired)
	}
	assert.Equal(t, 1, coll.Count("1"))
}

func TestRemoteBackend_ScopedByPrincipal(t *testing.T) {
	ctx := context.Background()
	coll := testutil.NewMemoryCollection()
	session := testutil.NewStaticAuth(auth.Authenticated("alice"))
	b := NewRemoteBackend(coll, session)

	_, err := b.Save(ctx, period.Record{StartDate: "2025-01-01", PredictedDate: "2025-01-29"})
	require.NoError(t, err)

	session.Set(auth.Authenticated("bob"))
	records, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Same start date is fine for a different principal.
	id, err := b.Save(ctx, period.Record{StartDate: "2025-01-01", PredictedDate: "2025-01-29"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, coll.Count("alice"))
	assert.Equal(t, 1, coll.Count("bob"))
}

func TestPreferenceStore(t *testing.T) {
	store := kvstore.NewMemoryStore()
	prefs := NewPreferenceStore(store, period.KindLocal)

	kind, err := prefs.Get()
	require.NoError(t, err)
	assert.Equal(t, period.KindLocal, kind)

	require.NoError(t, prefs.Set(period.KindRemote))
	raw, _, _ := store.Get(PreferenceKey)
	assert.Equal(t, "firebase", raw)

	kind, err = prefs.Get()
	require.NoError(t, err)
	assert.Equal(t, period.KindRemote, kind)

	require.NoError(t, store.Set(PreferenceKey, "floppy"))
	kind, err = prefs.Get()
	require.NoError(t, err)
	assert.Equal(t, period.KindLocal, kind)
}
