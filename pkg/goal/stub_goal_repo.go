package goal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type StubGoalRepo struct {
	mu          sync.Mutex
	nextId      int
	nextEntryId int
	data        map[int]Goal
	entries     map[int][]GoalEntry
	// ConflictOnce makes the next ApplyEntry fail with
	// ErrConcurrencyConflict to exercise the retry path.
	ConflictOnce bool
}

func NewStubGoalRepo() *StubGoalRepo {
	return &StubGoalRepo{data: map[int]Goal{}, entries: map[int][]GoalEntry{}}
}

func (s *StubGoalRepo) Store(ctx context.Context, userId int, goal Goal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	goal.ID = s.nextId
	goal.Current = 0
	goal.Achieved = false
	goal.CreatedAt = time.Now()
	s.data[goal.ID] = goal
	return goal.ID, nil
}

func (s *StubGoalRepo) Get(ctx context.Context, userId int, goalId int) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.data[goalId]
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	return goal, nil
}

func (s *StubGoalRepo) GetBySlug(ctx context.Context, userId int, slug string) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, goal := range s.data {
		if goal.Slug == slug {
			return goal, nil
		}
	}
	return Goal{}, ErrGoalNotFound
}

func (s *StubGoalRepo) GetAll(ctx context.Context, userId int) ([]Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := make([]Goal, 0, len(s.data))
	for _, goal := range s.data {
		goals = append(goals, goal)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *StubGoalRepo) Update(ctx context.Context, userId int, goal Goal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[goal.ID]
	if !ok {
		return false, nil
	}
	existing.Title = goal.Title
	existing.Description = goal.Description
	existing.Target = goal.Target
	existing.Deadline = goal.Deadline
	s.data[goal.ID] = existing
	return true, nil
}

func (s *StubGoalRepo) Delete(ctx context.Context, userId int, goalId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[goalId]; !ok {
		return false, nil
	}
	delete(s.data, goalId)
	delete(s.entries, goalId)
	return true, nil
}

func (s *StubGoalRepo) ApplyEntry(ctx context.Context, userId int, updated Goal, expectedCurrent money.Money, entry GoalEntry) (Goal, GoalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ConflictOnce {
		s.ConflictOnce = false
		return Goal{}, GoalEntry{}, ErrConcurrencyConflict
	}
	existing, ok := s.data[updated.ID]
	if !ok {
		return Goal{}, GoalEntry{}, ErrGoalNotFound
	}
	if existing.Current != expectedCurrent {
		return Goal{}, GoalEntry{}, ErrConcurrencyConflict
	}
	s.nextEntryId++
	entry.ID = s.nextEntryId
	entry.CreatedAt = time.Now()
	s.data[updated.ID] = updated
	s.entries[updated.ID] = append(s.entries[updated.ID], entry)
	return updated, entry, nil
}

func (s *StubGoalRepo) ListEntries(ctx context.Context, userId int, goalId int) ([]GoalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]GoalEntry, len(s.entries[goalId]))
	copy(entries, s.entries[goalId])
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

func (s *StubGoalRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]Goal{}
	s.entries = map[int][]GoalEntry{}
}
