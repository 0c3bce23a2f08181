package expense

import (
	"context"
	"sort"
	"sync"
)

type StubExpenseRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[int]Expense
}

func NewStubExpenseRepo() *StubExpenseRepo {
	return &StubExpenseRepo{data: map[int]Expense{}}
}

func (s *StubExpenseRepo) Store(ctx context.Context, userId int, expense Expense) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	expense.ID = s.nextId
	s.data[expense.ID] = expense
	return expense.ID, nil
}

func (s *StubExpenseRepo) Get(ctx context.Context, userId int, expenseId int) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.data[expenseId]
	if !ok {
		return Expense{}, ErrExpenseNotFound
	}
	return expense, nil
}

func (s *StubExpenseRepo) GetAll(ctx context.Context, userId int, year int, month int) ([]Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expenses []Expense
	for _, expense := range s.data {
		if year != 0 && month != 0 {
			if expense.Date.Year() != year || int(expense.Date.Month()) != month {
				continue
			}
		}
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].ID > expenses[j].ID
	})
	return expenses, nil
}

func (s *StubExpenseRepo) Update(ctx context.Context, userId int, expense Expense) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[expense.ID]; !ok {
		return false, nil
	}
	s.data[expense.ID] = expense
	return true, nil
}

func (s *StubExpenseRepo) Delete(ctx context.Context, userId int, expenseId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[expenseId]; !ok {
		return false, nil
	}
	delete(s.data, expenseId)
	return true, nil
}

func (s *StubExpenseRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]Expense{}
}
