package bill

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/event_bus"
	"github.com/equilibrium-app/equilibrium/internal/money"
	"github.com/equilibrium-app/equilibrium/internal/utils"
	"github.com/equilibrium-app/equilibrium/pkg/user"
)

// PaymentDetails is the read model for one bill in one period: the stored
// record (if any) plus the derived due date and overdue flag.
type PaymentDetails struct {
	Bill    RecurringBill
	Payment *BillPayment
	Status  PaymentStatus
	DueDate time.Time
	Overdue bool
}

type Service interface {
	Create(ctx context.Context, bill RecurringBill) (RecurringBill, error)
	Get(ctx context.Context, billId int) (RecurringBill, error)
	GetAll(ctx context.Context, includeInactive bool) ([]RecurringBill, error)
	// GetAllForPeriod returns the bills that were active during (year, month)
	// with their payment state for that period.
	GetAllForPeriod(ctx context.Context, year, month int) ([]PaymentDetails, error)
	Update(ctx context.Context, bill RecurringBill) (RecurringBill, error)
	// Deactivate tombstones the bill. Calling it again is a no-op that
	// returns the already-deactivated bill with its original tombstone.
	Deactivate(ctx context.Context, billId int) (RecurringBill, error)
	WasActiveDuring(ctx context.Context, billId, year, month int) (bool, error)
	// GetStatus reports the period status without creating a record: a period
	// with no record is implicitly pending.
	GetStatus(ctx context.Context, billId, year, month int) (PaymentStatus, error)
	GetOrCreatePayment(ctx context.Context, billId, year, month int) (BillPayment, bool, error)
	MarkPaid(ctx context.Context, billId, year, month int, amount money.Money, notes string) (BillPayment, error)
	// MarkPending reverts a paid period. It returns nil when no record exists
	// because the period is already implicitly pending.
	MarkPending(ctx context.Context, billId, year, month int) (*BillPayment, error)
	PaymentForPeriod(ctx context.Context, billId, year, month int) (PaymentDetails, error)
}

type BillServiceImpl struct {
	bills    BillRepo
	payments PaymentRepo
	clock    utils.Clock
	bus      *event_bus.EventBus
}

func NewBillService(bills BillRepo, payments PaymentRepo, clock utils.Clock, bus *event_bus.EventBus) *BillServiceImpl {
	return &BillServiceImpl{bills: bills, payments: payments, clock: clock, bus: bus}
}

func (s *BillServiceImpl) Create(ctx context.Context, bill RecurringBill) (RecurringBill, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringBill{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if bill.DueDay < 1 || bill.DueDay > 31 {
		return RecurringBill{}, ErrInvalidDueDay
	}
	if bill.Frequency == "" {
		bill.Frequency = FrequencyMonthly
	}

	id, err := s.bills.Store(ctx, userId, bill)
	if err != nil {
		return RecurringBill{}, err
	}
	return s.bills.Get(ctx, userId, id)
}

func (s *BillServiceImpl) Get(ctx context.Context, billId int) (RecurringBill, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringBill{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.bills.Get(ctx, userId, billId)
}

func (s *BillServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]RecurringBill, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.bills.GetAll(ctx, userId, includeInactive)
}

func (s *BillServiceImpl) GetAllForPeriod(ctx context.Context, year, month int) ([]PaymentDetails, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	bills, err := s.bills.GetAll(ctx, userId, true)
	if err != nil {
		return nil, err
	}

	details := make([]PaymentDetails, 0, len(bills))
	for _, b := range bills {
		// Only monthly bills carry a per-period ledger.
		if b.Frequency != FrequencyMonthly {
			continue
		}
		wasActive, err := b.WasActiveDuring(year, month)
		if err != nil {
			return nil, err
		}
		if !wasActive {
			continue
		}
		d, err := s.paymentDetails(ctx, b, year, month)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *BillServiceImpl) Update(ctx context.Context, bill RecurringBill) (RecurringBill, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringBill{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if bill.DueDay < 1 || bill.DueDay > 31 {
		return RecurringBill{}, ErrInvalidDueDay
	}

	updated, err := s.bills.Update(ctx, userId, bill)
	if err != nil {
		return RecurringBill{}, err
	}
	if !updated {
		log.Warnf("bill not updated, probably because it does not exist (%d) or the user (%d) is not the owner", bill.ID, userId)
		return RecurringBill{}, ErrBillNotFound
	}
	return s.bills.Get(ctx, userId, bill.ID)
}

func (s *BillServiceImpl) Deactivate(ctx context.Context, billId int) (RecurringBill, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringBill{}, fmt.Errorf("failed to get current user: %w", err)
	}
	existing, err := s.bills.Get(ctx, userId, billId)
	if err != nil {
		return RecurringBill{}, err
	}
	if !existing.DeactivatedAt.IsZero() {
		// Already deactivated; keep the original tombstone so period history
		// stays stable.
		return existing, nil
	}

	if _, err := s.bills.Deactivate(ctx, userId, billId, s.clock.Now()); err != nil {
		return RecurringBill{}, err
	}
	// A concurrent deactivation may have won; either way the stored state is
	// the answer.
	return s.bills.Get(ctx, userId, billId)
}

func (s *BillServiceImpl) WasActiveDuring(ctx context.Context, billId, year, month int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	b, err := s.bills.Get(ctx, userId, billId)
	if err != nil {
		return false, err
	}
	return b.WasActiveDuring(year, month)
}

func (s *BillServiceImpl) GetStatus(ctx context.Context, billId, year, month int) (PaymentStatus, error) {
	if _, err := s.ownedBill(ctx, billId); err != nil {
		return "", err
	}
	if err := ValidatePeriod(year, month); err != nil {
		return "", err
	}
	payment, err := s.payments.Find(ctx, billId, year, month)
	if err == ErrPaymentNotFound {
		return PaymentStatusPending, nil
	}
	if err != nil {
		return "", err
	}
	return payment.Status, nil
}

func (s *BillServiceImpl) GetOrCreatePayment(ctx context.Context, billId, year, month int) (BillPayment, bool, error) {
	if _, err := s.ownedBill(ctx, billId); err != nil {
		return BillPayment{}, false, err
	}
	return s.getOrCreate(ctx, billId, year, month)
}

func (s *BillServiceImpl) getOrCreate(ctx context.Context, billId, year, month int) (BillPayment, bool, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return BillPayment{}, false, err
	}
	payment, err := s.payments.Find(ctx, billId, year, month)
	if err == nil {
		return payment, false, nil
	}
	if err != ErrPaymentNotFound {
		return BillPayment{}, false, err
	}

	payment, created, err := s.payments.Create(ctx, billId, year, month)
	if err != nil {
		return BillPayment{}, false, err
	}
	if created {
		return payment, true, nil
	}
	// A concurrent caller created the record between Find and Create;
	// re-read instead of surfacing the conflict.
	payment, err = s.payments.Find(ctx, billId, year, month)
	if err != nil {
		return BillPayment{}, false, err
	}
	return payment, false, nil
}

func (s *BillServiceImpl) MarkPaid(ctx context.Context, billId, year, month int, amount money.Money, notes string) (BillPayment, error) {
	b, err := s.ownedBill(ctx, billId)
	if err != nil {
		return BillPayment{}, err
	}
	payment, _, err := s.getOrCreate(ctx, billId, year, month)
	if err != nil {
		return BillPayment{}, err
	}

	payment.Status = PaymentStatusPaid
	payment.PaidDate = s.clock.Now()
	if amount != 0 {
		payment.AmountPaid = amount
	} else {
		payment.AmountPaid = b.Amount
	}
	if notes != "" {
		payment.Notes = notes
	}

	updated, err := s.payments.Update(ctx, payment)
	if err != nil {
		return BillPayment{}, err
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BillPaidEvent, event_bus.BillPaid{
		BillId:     b.ID,
		Name:       b.Name,
		Year:       year,
		Month:      month,
		AmountPaid: updated.AmountPaid,
	})); err != nil {
		log.Errorf("failed to publish bill paid event: %v", err)
	}
	return updated, nil
}

func (s *BillServiceImpl) MarkPending(ctx context.Context, billId, year, month int) (*BillPayment, error) {
	if _, err := s.ownedBill(ctx, billId); err != nil {
		return nil, err
	}
	if err := ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	payment, err := s.payments.Find(ctx, billId, year, month)
	if err == ErrPaymentNotFound {
		// No record means the period is already implicitly pending.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	payment.Status = PaymentStatusPending
	payment.PaidDate = time.Time{}
	payment.AmountPaid = 0

	updated, err := s.payments.Update(ctx, payment)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BillServiceImpl) PaymentForPeriod(ctx context.Context, billId, year, month int) (PaymentDetails, error) {
	b, err := s.ownedBill(ctx, billId)
	if err != nil {
		return PaymentDetails{}, err
	}
	if err := ValidatePeriod(year, month); err != nil {
		return PaymentDetails{}, err
	}
	return s.paymentDetails(ctx, b, year, month)
}

func (s *BillServiceImpl) paymentDetails(ctx context.Context, b RecurringBill, year, month int) (PaymentDetails, error) {
	dueDate, err := DueDateFor(b.DueDay, year, month)
	if err != nil {
		return PaymentDetails{}, err
	}

	details := PaymentDetails{
		Bill:    b,
		Status:  PaymentStatusPending,
		DueDate: dueDate,
	}
	payment, err := s.payments.Find(ctx, b.ID, year, month)
	if err == nil {
		details.Payment = &payment
		details.Status = payment.Status
		details.Overdue = payment.IsOverdue(dueDate, s.clock.Now())
		return details, nil
	}
	if err != ErrPaymentNotFound {
		return PaymentDetails{}, err
	}
	// No stored record: derive overdue-ness from an implicit pending one.
	implicit := BillPayment{Status: PaymentStatusPending}
	details.Overdue = implicit.IsOverdue(dueDate, s.clock.Now())
	return details, nil
}

// ownedBill resolves the bill while enforcing that it belongs to the caller
// and that its frequency carries a per-period ledger. Payment records are
// keyed by bill id alone, so every payment operation goes through this check
// first.
func (s *BillServiceImpl) ownedBill(ctx context.Context, billId int) (RecurringBill, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RecurringBill{}, fmt.Errorf("failed to get current user: %w", err)
	}
	b, err := s.bills.Get(ctx, userId, billId)
	if err != nil {
		return RecurringBill{}, err
	}
	if b.Frequency != FrequencyMonthly {
		return RecurringBill{}, ErrUnsupportedFrequency
	}
	return b, nil
}
