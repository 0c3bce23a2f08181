package goal

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/test_utils"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupGoalRepoTest(t *testing.T) (context.Context, *GoalRepoImpl, int) {
	t.Helper()
	ctx := context.Background()
	userId, err := test_utils.CreateTestUser(ctx, db, "goal_"+t.Name())
	require.NoError(t, err)
	return ctx, NewGoalRepo(db), userId
}

func TestGoalRepoImpl_StoreAndGet(t *testing.T) {
	ctx, repo, userId := setupGoalRepoTest(t)

	id, err := repo.Store(ctx, userId, Goal{Title: "New Car", Slug: "new-car", Target: 5000000})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, userId, id)
	require.NoError(t, err)
	assert.Equal(t, "New Car", stored.Title)
	assert.Equal(t, money.Money(0), stored.Current)
	assert.False(t, stored.Achieved)

	bySlug, err := repo.GetBySlug(ctx, userId, "new-car")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, bySlug.ID)

	_, err = repo.Get(ctx, userId+1, id)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalRepoImpl_ApplyEntry(t *testing.T) {
	ctx, repo, userId := setupGoalRepoTest(t)

	id, err := repo.Store(ctx, userId, Goal{Title: "Vacation", Slug: "vacation", Target: 300000})
	require.NoError(t, err)
	g, err := repo.Get(ctx, userId, id)
	require.NoError(t, err)

	updated := g
	updated.Current = 100000
	result, entry, err := repo.ApplyEntry(ctx, userId, updated, 0, GoalEntry{GoalId: id, Amount: 100000, Note: "first"})
	require.NoError(t, err)
	assert.Equal(t, money.Money(100000), result.Current)
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	t.Run("stale expected balance conflicts and writes nothing", func(t *testing.T) {
		stale := result
		stale.Current = 200000
		_, _, err := repo.ApplyEntry(ctx, userId, stale, 0, GoalEntry{GoalId: id, Amount: 200000})
		assert.ErrorIs(t, err, ErrConcurrencyConflict)

		entries, err := repo.ListEntries(ctx, userId, id)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		fresh, err := repo.Get(ctx, userId, id)
		require.NoError(t, err)
		assert.Equal(t, money.Money(100000), fresh.Current)
	})

	t.Run("entries are invisible to other users", func(t *testing.T) {
		otherId, err := test_utils.CreateTestUser(ctx, db, "goal_other_user")
		require.NoError(t, err)
		entries, err := repo.ListEntries(ctx, otherId, id)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGoalRepoImpl_DeleteCascadesEntries(t *testing.T) {
	ctx, repo, userId := setupGoalRepoTest(t)

	id, err := repo.Store(ctx, userId, Goal{Title: "Short Lived", Slug: "short-lived", Target: 10000})
	require.NoError(t, err)
	g, err := repo.Get(ctx, userId, id)
	require.NoError(t, err)
	g.Current = 5000
	_, _, err = repo.ApplyEntry(ctx, userId, g, 0, GoalEntry{GoalId: id, Amount: 5000})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, userId, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	var count int
	err = db.QueryRow(ctx, `SELECT COUNT(*) FROM goal_entry WHERE goal_id = $1`, id).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
