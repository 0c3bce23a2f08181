package goal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/internal/event_bus"
	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/utils"
	"github.com/equilibrium-app/equilibrium/pkg/user"
)

func setupGoalServiceTest(t *testing.T) (*GoalServiceImpl, *StubGoalRepo, context.Context, *utils.MockClock, *event_bus.EventBus) {
	t.Helper()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.August, 10, 12, 0, 0, 0, time.UTC)}
	repo := NewStubGoalRepo()
	bus := event_bus.NewEventBus()
	service := NewGoalService(repo, clock, bus)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})
	return service, repo, ctx, clock, bus
}

func createTestGoal(t *testing.T, service *GoalServiceImpl, ctx context.Context, target money.Money) Goal {
	t.Helper()
	g, err := service.Create(ctx, Goal{Title: "Emergency Fund", Target: target})
	require.NoError(t, err)
	return g
}

func TestGoalService_Create(t *testing.T) {
	service, _, ctx, _, _ := setupGoalServiceTest(t)

	t.Run("slugifies the title", func(t *testing.T) {
		g, err := service.Create(ctx, Goal{Title: "Viagem à Praia", Target: 500000})
		require.NoError(t, err)
		assert.Equal(t, "viagem-a-praia", g.Slug)
		assert.Equal(t, money.Money(0), g.Current)
		assert.False(t, g.Achieved)
	})

	t.Run("rejects non-positive target", func(t *testing.T) {
		_, err := service.Create(ctx, Goal{Title: "Broken", Target: 0})
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})
}

func TestGoalService_DepositWithdrawSequence(t *testing.T) {
	service, _, ctx, _, _ := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 300000)

	t.Run("deposit within capacity", func(t *testing.T) {
		entry, updated, err := service.Deposit(ctx, g.Slug, 200000, "first paycheck")
		require.NoError(t, err)
		assert.Equal(t, money.Money(200000), entry.Amount)
		assert.Equal(t, money.Money(200000), updated.Current)
		assert.False(t, updated.Achieved)
		assert.Equal(t, money.Money(100000), updated.Remaining())
	})

	t.Run("deposit exceeding the shortfall is rejected", func(t *testing.T) {
		_, _, err := service.Deposit(ctx, g.Slug, 150000, "")
		assert.ErrorIs(t, err, ErrExceedsRemainingCapacity)

		current, err := service.Get(ctx, g.Slug)
		require.NoError(t, err)
		assert.Equal(t, money.Money(200000), current.Current)
	})

	t.Run("deposit reaching the target marks it achieved", func(t *testing.T) {
		_, updated, err := service.Deposit(ctx, g.Slug, 100000, "")
		require.NoError(t, err)
		assert.True(t, updated.Achieved)
		assert.Equal(t, money.Money(300000), updated.Current)
		assert.False(t, updated.CompletedAt.IsZero())
	})

	t.Run("withdrawal below target reopens the goal", func(t *testing.T) {
		entry, updated, err := service.Withdraw(ctx, g.Slug, 50000, "car repair")
		require.NoError(t, err)
		assert.Equal(t, money.Money(-50000), entry.Amount)
		assert.Equal(t, money.Money(250000), updated.Current)
		assert.False(t, updated.Achieved)
		assert.True(t, updated.CompletedAt.IsZero())
	})

	t.Run("withdrawal exceeding the balance is rejected", func(t *testing.T) {
		_, _, err := service.Withdraw(ctx, g.Slug, 999999, "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		current, err := service.Get(ctx, g.Slug)
		require.NoError(t, err)
		assert.Equal(t, money.Money(250000), current.Current)
	})

	t.Run("balance equals the sum of entries", func(t *testing.T) {
		entries, err := service.ListEntries(ctx, g.Slug)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		var sum money.Money
		for _, entry := range entries {
			sum += entry.Amount
		}
		current, err := service.Get(ctx, g.Slug)
		require.NoError(t, err)
		assert.Equal(t, current.Current, sum)
	})
}

func TestGoalService_CompletedAtStampedOnce(t *testing.T) {
	service, _, ctx, clock, _ := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 100000)

	_, achieved, err := service.Deposit(ctx, g.Slug, 100000, "")
	require.NoError(t, err)
	firstStamp := achieved.CompletedAt
	assert.Equal(t, clock.FixedNow, firstStamp)

	// Over-deposits once achieved keep the original stamp.
	clock.SetNow(clock.FixedNow.Add(48 * time.Hour))
	_, over, err := service.Deposit(ctx, g.Slug, 25000, "bonus")
	require.NoError(t, err)
	assert.True(t, over.Achieved)
	assert.Equal(t, firstStamp, over.CompletedAt)

	// Reopening and re-achieving stamps a fresh completion time.
	_, reopened, err := service.Withdraw(ctx, g.Slug, 50000, "")
	require.NoError(t, err)
	assert.False(t, reopened.Achieved)

	clock.SetNow(clock.FixedNow.Add(24 * time.Hour))
	_, again, err := service.Deposit(ctx, g.Slug, 25000, "")
	require.NoError(t, err)
	assert.True(t, again.Achieved)
	assert.Equal(t, clock.FixedNow, again.CompletedAt)
	assert.NotEqual(t, firstStamp, again.CompletedAt)
}

func TestGoalService_OverDepositAllowedOnceAchieved(t *testing.T) {
	service, _, ctx, _, _ := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 100000)

	_, _, err := service.Deposit(ctx, g.Slug, 100000, "")
	require.NoError(t, err)

	_, updated, err := service.Deposit(ctx, g.Slug, 500000, "")
	require.NoError(t, err)
	assert.Equal(t, money.Money(600000), updated.Current)
	assert.Equal(t, float64(100), updated.ProgressPercentage())
	assert.Equal(t, money.Money(0), updated.Remaining())
}

func TestGoalService_RetriesLostOptimisticWrite(t *testing.T) {
	service, repo, ctx, _, _ := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 300000)

	repo.ConflictOnce = true
	_, updated, err := service.Deposit(ctx, g.Slug, 100000, "")
	require.NoError(t, err)
	assert.Equal(t, money.Money(100000), updated.Current)

	entries, err := service.ListEntries(ctx, g.Slug)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGoalService_PublishesTransitionEvents(t *testing.T) {
	service, _, ctx, _, bus := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 100000)

	var completed []event_bus.GoalCompleted
	var reopened []event_bus.GoalReopened
	event_bus.SubscribeTyped(bus, event_bus.GoalCompletedEvent, func(e event_bus.EventT[event_bus.GoalCompleted]) error {
		completed = append(completed, e.Data)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.GoalReopenedEvent, func(e event_bus.EventT[event_bus.GoalReopened]) error {
		reopened = append(reopened, e.Data)
		return nil
	})

	_, _, err := service.Deposit(ctx, g.Slug, 100000, "")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, g.ID, completed[0].GoalId)

	// Staying above target publishes nothing.
	_, _, err = service.Deposit(ctx, g.Slug, 10000, "")
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	_, _, err = service.Withdraw(ctx, g.Slug, 50000, "")
	require.NoError(t, err)
	require.Len(t, reopened, 1)
	assert.Equal(t, g.ID, reopened[0].GoalId)
}

func TestGoalService_Validation(t *testing.T) {
	service, _, ctx, _, _ := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 100000)

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		_, _, err := service.Deposit(ctx, g.Slug, 0, "")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)
		_, _, err = service.Withdraw(ctx, g.Slug, -500, "")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, _, err := service.Deposit(ctx, "does-not-exist", 1000, "")
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})

	t.Run("update rejects non-positive target", func(t *testing.T) {
		g.Target = 0
		_, err := service.Update(ctx, g)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})
}

func TestGoalService_Delete(t *testing.T) {
	service, _, ctx, _, _ := setupGoalServiceTest(t)
	g := createTestGoal(t, service, ctx, 100000)

	require.NoError(t, service.Delete(ctx, g.Slug))
	_, err := service.Get(ctx, g.Slug)
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.ErrorIs(t, service.Delete(ctx, g.Slug), ErrGoalNotFound)
}
