package investment

import (
	"context"
	"sort"
	"sync"
)

type StubInvestmentRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[int]Investment
}

func NewStubInvestmentRepo() *StubInvestmentRepo {
	return &StubInvestmentRepo{data: map[int]Investment{}}
}

func (s *StubInvestmentRepo) Store(ctx context.Context, investment Investment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	investment.ID = s.nextId
	s.data[investment.ID] = investment
	return investment.ID, nil
}

func (s *StubInvestmentRepo) Get(ctx context.Context, investmentId int) (Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	investment, ok := s.data[investmentId]
	if !ok {
		return Investment{}, ErrInvestmentNotFound
	}
	return investment, nil
}

func (s *StubInvestmentRepo) GetAll(ctx context.Context) ([]Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	investments := make([]Investment, 0, len(s.data))
	for _, investment := range s.data {
		investments = append(investments, investment)
	}
	sort.Slice(investments, func(i, j int) bool {
		if !investments[i].DateInvested.Equal(investments[j].DateInvested) {
			return investments[i].DateInvested.After(investments[j].DateInvested)
		}
		return investments[i].ID > investments[j].ID
	})
	return investments, nil
}

func (s *StubInvestmentRepo) Update(ctx context.Context, investment Investment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[investment.ID]; !ok {
		return false, nil
	}
	s.data[investment.ID] = investment
	return true, nil
}

func (s *StubInvestmentRepo) Delete(ctx context.Context, investmentId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[investmentId]; !ok {
		return false, nil
	}
	delete(s.data, investmentId)
	return true, nil
}

func (s *StubInvestmentRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]Investment{}
}
