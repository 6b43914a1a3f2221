package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-go-api/internal/nutrition"
)

// repositories returns each implementation, fresh per test.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"sqlite": sqlite,
	}
}

func TestRepository_LoadSaveClear(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrMiss)

			require.NoError(t, repo.Save(ctx, "k", []byte(`{"a":1}`)))
			require.NoError(t, repo.Save(ctx, "k", []byte(`{"a":2}`)))
			got, err := repo.Load(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(got))

			require.NoError(t, repo.Clear(ctx))
			_, err = repo.Load(ctx, "k")
			assert.ErrorIs(t, err, ErrMiss)
		})
	}
}

func TestTypedHelpers(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			p := nutrition.DefaultProfile()
			targets, err := nutrition.ComputeTargets(p)
			require.NoError(t, err)
			require.NoError(t, SaveProfile(ctx, repo, CachedProfile{Profile: p, Computed: targets}))

			got, err := LoadProfile(ctx, repo)
			require.NoError(t, err)
			assert.Equal(t, p, got.Profile)
			assert.Equal(t, targets, got.Computed)

			day := nutrition.EmptyPlanDay(nutrition.MustParseDate("2026-10-19"))
			require.NoError(t, SavePlan(ctx, repo, day))
			gotDay, err := LoadPlan(ctx, repo, day.Date)
			require.NoError(t, err)
			assert.Equal(t, day.Date.String(), gotDay.Date.String())

			_, err = LoadPlan(ctx, repo, nutrition.MustParseDate("2026-10-20"))
			assert.ErrorIs(t, err, ErrMiss)
		})
	}
}

func TestMemoryRepository_CopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	value := []byte("abc")
	require.NoError(t, repo.Save(ctx, "k", value))
	value[0] = 'x'

	got, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, repo.Len())
}
