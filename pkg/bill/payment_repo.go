package bill

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type PaymentRepo interface {
	// Find returns the payment record for (billId, year, month) or
	// ErrPaymentNotFound. It never creates one.
	Find(ctx context.Context, billId, year, month int) (BillPayment, error)
	// Create inserts a pending payment record for the period. The second
	// return value is false when another writer already created it; the
	// unique index on (bill_id, year, month) is the source of truth and a
	// lost race is resolved by the follow-up Find, not surfaced as an error.
	Create(ctx context.Context, billId, year, month int) (BillPayment, bool, error)
	Update(ctx context.Context, payment BillPayment) (BillPayment, error)
	ListForBill(ctx context.Context, billId int) ([]BillPayment, error)
}

type PaymentRepoImpl struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepoImpl {
	return &PaymentRepoImpl{db: db}
}

const paymentColumns = `id, bill_id, year, month, status, paid_date, amount_paid_cents, notes, created_at`

func (r *PaymentRepoImpl) Find(ctx context.Context, billId, year, month int) (BillPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM recurring_bill_payment
				WHERE bill_id = $1 AND year = $2 AND month = $3`
	payment, err := scanPayment(r.db.QueryRow(ctx, query, billId, year, month))
	if errors.Is(err, pgx.ErrNoRows) {
		return BillPayment{}, ErrPaymentNotFound
	}
	if err != nil {
		log.Errorf("could not find bill payment: %v", err)
		return BillPayment{}, err
	}
	return payment, nil
}

func (r *PaymentRepoImpl) Create(ctx context.Context, billId, year, month int) (BillPayment, bool, error) {
	query := `INSERT INTO recurring_bill_payment (bill_id, year, month, status)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (bill_id, year, month) DO NOTHING
				RETURNING ` + paymentColumns
	payment, err := scanPayment(r.db.QueryRow(ctx, query, billId, year, month, PaymentStatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race: a record for this period already exists.
		return BillPayment{}, false, nil
	}
	if err != nil {
		log.Errorf("could not create bill payment: %v", err)
		return BillPayment{}, false, err
	}
	return payment, true, nil
}

func (r *PaymentRepoImpl) Update(ctx context.Context, payment BillPayment) (BillPayment, error) {
	query := `UPDATE recurring_bill_payment
				SET status = $1, paid_date = $2, amount_paid_cents = $3, notes = $4
				WHERE id = $5
				RETURNING ` + paymentColumns
	var paidDate *time.Time
	if !payment.PaidDate.IsZero() {
		paidDate = &payment.PaidDate
	}
	var amountPaid *int64
	if payment.AmountPaid != 0 {
		cents := int64(payment.AmountPaid)
		amountPaid = &cents
	}
	updated, err := scanPayment(r.db.QueryRow(ctx, query,
		payment.Status,
		paidDate,
		amountPaid,
		payment.Notes,
		payment.ID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return BillPayment{}, ErrPaymentNotFound
	}
	if err != nil {
		log.Errorf("could not update bill payment: %v", err)
		return BillPayment{}, err
	}
	return updated, nil
}

func (r *PaymentRepoImpl) ListForBill(ctx context.Context, billId int) ([]BillPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM recurring_bill_payment
				WHERE bill_id = $1 ORDER BY year DESC, month DESC`
	rows, err := r.db.Query(ctx, query, billId)
	if err != nil {
		log.Errorf("could not query bill payments: %v", err)
		return nil, err
	}
	defer rows.Close()

	var payments []BillPayment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			log.Errorf("could not scan bill payment: %v", err)
			return nil, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over bill payments: %v", err)
		return nil, err
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (BillPayment, error) {
	var payment BillPayment
	var paidDate *time.Time
	var amountPaid *int64
	if err := row.Scan(
		&payment.ID,
		&payment.BillId,
		&payment.Year,
		&payment.Month,
		&payment.Status,
		&paidDate,
		&amountPaid,
		&payment.Notes,
		&payment.CreatedAt,
	); err != nil {
		return BillPayment{}, err
	}
	if paidDate != nil {
		payment.PaidDate = *paidDate
	}
	if amountPaid != nil {
		payment.AmountPaid = money.Money(*amountPaid)
	}
	return payment, nil
}
