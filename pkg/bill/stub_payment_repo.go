package bill

import (
	"context"
	"sync"
	"time"
)

type periodKey struct {
	billId int
	year   int
	month  int
}

type StubPaymentRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[periodKey]BillPayment
}

func NewStubPaymentRepo() *StubPaymentRepo {
	return &StubPaymentRepo{data: map[periodKey]BillPayment{}}
}

func (s *StubPaymentRepo) Find(ctx context.Context, billId, year, month int) (BillPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.data[periodKey{billId, year, month}]
	if !ok {
		return BillPayment{}, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *StubPaymentRepo) Create(ctx context.Context, billId, year, month int) (BillPayment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := periodKey{billId, year, month}
	if _, exists := s.data[key]; exists {
		return BillPayment{}, false, nil
	}
	s.nextId++
	payment := BillPayment{
		ID:        s.nextId,
		BillId:    billId,
		Year:      year,
		Month:     month,
		Status:    PaymentStatusPending,
		CreatedAt: time.Now(),
	}
	s.data[key] = payment
	return payment, true, nil
}

func (s *StubPaymentRepo) Update(ctx context.Context, payment BillPayment) (BillPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := periodKey{payment.BillId, payment.Year, payment.Month}
	if _, ok := s.data[key]; !ok {
		return BillPayment{}, ErrPaymentNotFound
	}
	s.data[key] = payment
	return payment, nil
}

func (s *StubPaymentRepo) ListForBill(ctx context.Context, billId int) ([]BillPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []BillPayment
	for _, payment := range s.data {
		if payment.BillId == billId {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (s *StubPaymentRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[periodKey]BillPayment{}
}
