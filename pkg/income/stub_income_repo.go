package income

import (
	"context"
	"sort"
	"sync"
)

type StubIncomeRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[int]Income
}

func NewStubIncomeRepo() *StubIncomeRepo {
	return &StubIncomeRepo{data: map[int]Income{}}
}

func (s *StubIncomeRepo) Store(ctx context.Context, userId int, income Income) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	income.ID = s.nextId
	s.data[income.ID] = income
	return income.ID, nil
}

func (s *StubIncomeRepo) Get(ctx context.Context, userId int, incomeId int) (Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	income, ok := s.data[incomeId]
	if !ok {
		return Income{}, ErrIncomeNotFound
	}
	return income, nil
}

func (s *StubIncomeRepo) GetAll(ctx context.Context, userId int, year int, month int) ([]Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var incomes []Income
	for _, income := range s.data {
		if year != 0 && month != 0 {
			if income.Date.Year() != year || int(income.Date.Month()) != month {
				continue
			}
		}
		incomes = append(incomes, income)
	}
	sort.Slice(incomes, func(i, j int) bool {
		if !incomes[i].Date.Equal(incomes[j].Date) {
			return incomes[i].Date.After(incomes[j].Date)
		}
		return incomes[i].ID > incomes[j].ID
	})
	return incomes, nil
}

func (s *StubIncomeRepo) Update(ctx context.Context, userId int, income Income) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[income.ID]; !ok {
		return false, nil
	}
	s.data[income.ID] = income
	return true, nil
}

func (s *StubIncomeRepo) Delete(ctx context.Context, userId int, incomeId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[incomeId]; !ok {
		return false, nil
	}
	delete(s.data, incomeId)
	return true, nil
}

func (s *StubIncomeRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]Income{}
}
