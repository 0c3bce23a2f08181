package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/event_bus"
	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/utils"
	"github.com/equilibrium-app/equilibrium/pkg/user"
)

type Service interface {
	Create(ctx context.Context, goal Goal) (Goal, error)
	Get(ctx context.Context, slug string) (Goal, error)
	GetAll(ctx context.Context) ([]Goal, error)
	Update(ctx context.Context, goal Goal) (Goal, error)
	Delete(ctx context.Context, slug string) error
	// Deposit adds a strictly positive amount to the goal balance. While the
	// goal is short of its target the deposit must fit within the remaining
	// shortfall; once the target is met or exceeded deposits are accepted
	// unconditionally.
	Deposit(ctx context.Context, slug string, amount money.Money, note string) (GoalEntry, Goal, error)
	Withdraw(ctx context.Context, slug string, amount money.Money, note string) (GoalEntry, Goal, error)
	ListEntries(ctx context.Context, slug string) ([]GoalEntry, error)
}

type GoalServiceImpl struct {
	repo  GoalRepo
	clock utils.Clock
	bus   *event_bus.EventBus
}

func NewGoalService(repo GoalRepo, clock utils.Clock, bus *event_bus.EventBus) *GoalServiceImpl {
	return &GoalServiceImpl{repo: repo, clock: clock, bus: bus}
}

func (s *GoalServiceImpl) Create(ctx context.Context, goal Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if goal.Target <= 0 {
		return Goal{}, ErrInvalidTarget
	}
	if goal.Slug == "" {
		goal.Slug = utils.Slugify(goal.Title)
	}

	id, err := s.repo.Store(ctx, userId, goal)
	if err != nil {
		return Goal{}, err
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *GoalServiceImpl) Get(ctx context.Context, slug string) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetBySlug(ctx, userId, slug)
}

func (s *GoalServiceImpl) GetAll(ctx context.Context) ([]Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *GoalServiceImpl) Update(ctx context.Context, goal Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if goal.Target <= 0 {
		return Goal{}, ErrInvalidTarget
	}

	updated, err := s.repo.Update(ctx, userId, goal)
	if err != nil {
		return Goal{}, err
	}
	if !updated {
		log.Warnf("goal not updated, probably because it does not exist (%d) or the user (%d) is not the owner", goal.ID, userId)
		return Goal{}, ErrGoalNotFound
	}
	return s.repo.Get(ctx, userId, goal.ID)
}

func (s *GoalServiceImpl) Delete(ctx context.Context, slug string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	goal, err := s.repo.GetBySlug(ctx, userId, slug)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, userId, goal.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGoalNotFound
	}
	return nil
}

func (s *GoalServiceImpl) Deposit(ctx context.Context, slug string, amount money.Money, note string) (GoalEntry, Goal, error) {
	if amount <= 0 {
		return GoalEntry{}, Goal{}, money.ErrInvalidAmount
	}
	return s.applyWithRetry(ctx, slug, func(g Goal) (money.Money, error) {
		remaining := g.Remaining()
		if remaining > 0 && amount > remaining {
			return 0, ErrExceedsRemainingCapacity
		}
		return amount, nil
	}, note)
}

func (s *GoalServiceImpl) Withdraw(ctx context.Context, slug string, amount money.Money, note string) (GoalEntry, Goal, error) {
	if amount <= 0 {
		return GoalEntry{}, Goal{}, money.ErrInvalidAmount
	}
	return s.applyWithRetry(ctx, slug, func(g Goal) (money.Money, error) {
		if amount > g.Current {
			return 0, ErrInsufficientBalance
		}
		return -amount, nil
	}, note)
}

// applyWithRetry runs one balance mutation: read, validate, write entry and
// balance atomically. A lost optimistic write is retried once against fresh
// state before ErrConcurrencyConflict reaches the caller.
func (s *GoalServiceImpl) applyWithRetry(ctx context.Context, slug string, validate func(Goal) (money.Money, error), note string) (GoalEntry, Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return GoalEntry{}, Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}

	for attempt := 0; ; attempt++ {
		g, err := s.repo.GetBySlug(ctx, userId, slug)
		if err != nil {
			return GoalEntry{}, Goal{}, err
		}

		signedAmount, err := validate(g)
		if err != nil {
			return GoalEntry{}, Goal{}, err
		}

		updated := g
		updated.Current = g.Current + signedAmount
		wasAchieved := g.Achieved
		s.recomputeAchievement(&updated)

		result, entry, err := s.repo.ApplyEntry(ctx, userId, updated, g.Current, GoalEntry{
			GoalId: g.ID,
			Amount: signedAmount,
			Note:   note,
		})
		if errors.Is(err, ErrConcurrencyConflict) && attempt == 0 {
			log.Debugf("goal %d balance moved concurrently, retrying", g.ID)
			continue
		}
		if err != nil {
			return GoalEntry{}, Goal{}, err
		}

		s.publishTransitions(ctx, wasAchieved, result)
		return entry, result, nil
	}
}

// recomputeAchievement runs after every balance mutation. CompletedAt is
// stamped only on the not-achieved to achieved transition and cleared when
// the balance falls back below target.
func (s *GoalServiceImpl) recomputeAchievement(g *Goal) {
	achievedNow := g.Current >= g.Target
	if achievedNow && !g.Achieved {
		g.CompletedAt = s.clock.Now()
	} else if !achievedNow {
		g.CompletedAt = time.Time{}
	}
	g.Achieved = achievedNow
}

func (s *GoalServiceImpl) publishTransitions(ctx context.Context, wasAchieved bool, g Goal) {
	if g.Achieved && !wasAchieved {
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.GoalCompletedEvent, event_bus.GoalCompleted{
			GoalId:      g.ID,
			Title:       g.Title,
			Target:      g.Target,
			CompletedAt: g.CompletedAt,
		})); err != nil {
			log.Errorf("failed to publish goal completed event: %v", err)
		}
	}
	if !g.Achieved && wasAchieved {
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.GoalReopenedEvent, event_bus.GoalReopened{
			GoalId: g.ID,
			Title:  g.Title,
		})); err != nil {
			log.Errorf("failed to publish goal reopened event: %v", err)
		}
	}
}

func (s *GoalServiceImpl) ListEntries(ctx context.Context, slug string) ([]GoalEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	g, err := s.repo.GetBySlug(ctx, userId, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, userId, g.ID)
}
