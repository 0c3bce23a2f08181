package bill

import (
	"context"
	"sync"
	"time"
)

type StubBillRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[int]RecurringBill
}

func NewStubBillRepo() *StubBillRepo {
	return &StubBillRepo{data: map[int]RecurringBill{}}
}

func (s *StubBillRepo) Store(ctx context.Context, userId int, bill RecurringBill) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	bill.ID = s.nextId
	bill.IsActive = true
	bill.CreatedAt = time.Now()
	s.data[bill.ID] = bill
	return bill.ID, nil
}

func (s *StubBillRepo) Get(ctx context.Context, userId int, billId int) (RecurringBill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.data[billId]
	if !ok {
		return RecurringBill{}, ErrBillNotFound
	}
	return bill, nil
}

func (s *StubBillRepo) GetAll(ctx context.Context, userId int, includeInactive bool) ([]RecurringBill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bills := make([]RecurringBill, 0, len(s.data))
	for _, bill := range s.data {
		if bill.IsActive || includeInactive {
			bills = append(bills, bill)
		}
	}
	return bills, nil
}

func (s *StubBillRepo) Update(ctx context.Context, userId int, bill RecurringBill) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[bill.ID]
	if !ok {
		return false, nil
	}
	existing.Name = bill.Name
	existing.Description = bill.Description
	existing.Amount = bill.Amount
	existing.DueDay = bill.DueDay
	existing.Frequency = bill.Frequency
	existing.CategoryId = bill.CategoryId
	s.data[bill.ID] = existing
	return true, nil
}

func (s *StubBillRepo) Deactivate(ctx context.Context, userId int, billId int, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.data[billId]
	if !ok || !bill.DeactivatedAt.IsZero() {
		return false, nil
	}
	bill.IsActive = false
	bill.DeactivatedAt = at
	s.data[billId] = bill
	return true, nil
}

func (s *StubBillRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]RecurringBill{}
}
