package debt

import (
	"context"
	"sort"
	"sync"
)

type StubDebtRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[int]Debt
}

func NewStubDebtRepo() *StubDebtRepo {
	return &StubDebtRepo{data: map[int]Debt{}}
}

func (s *StubDebtRepo) Store(ctx context.Context, userId int, debt Debt) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	debt.ID = s.nextId
	s.data[debt.ID] = debt
	return debt.ID, nil
}

func (s *StubDebtRepo) Get(ctx context.Context, userId int, debtId int) (Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	debt, ok := s.data[debtId]
	if !ok {
		return Debt{}, ErrDebtNotFound
	}
	return debt, nil
}

func (s *StubDebtRepo) GetAll(ctx context.Context, userId int, onlyUnpaid bool) ([]Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var debts []Debt
	for _, debt := range s.data {
		if onlyUnpaid && debt.Paid {
			continue
		}
		debts = append(debts, debt)
	}
	sort.Slice(debts, func(i, j int) bool {
		if !debts[i].DueDate.Equal(debts[j].DueDate) {
			return debts[i].DueDate.Before(debts[j].DueDate)
		}
		return debts[i].ID < debts[j].ID
	})
	return debts, nil
}

func (s *StubDebtRepo) Update(ctx context.Context, userId int, debt Debt) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[debt.ID]
	if !ok {
		return false, nil
	}
	debt.Paid = existing.Paid
	s.data[debt.ID] = debt
	return true, nil
}

func (s *StubDebtRepo) SetPaid(ctx context.Context, userId int, debtId int, paid bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	debt, ok := s.data[debtId]
	if !ok {
		return false, nil
	}
	debt.Paid = paid
	s.data[debtId] = debt
	return true, nil
}

func (s *StubDebtRepo) Delete(ctx context.Context, userId int, debtId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[debtId]; !ok {
		return false, nil
	}
	delete(s.data, debtId)
	return true, nil
}

func (s *StubDebtRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]Debt{}
}
