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

type BillRepo interface {
	Store(ctx context.Context, userId int, bill RecurringBill) (int, error)
	Get(ctx context.Context, userId int, billId int) (RecurringBill, error)
	GetAll(ctx context.Context, userId int, includeInactive bool) ([]RecurringBill, error)
	Update(ctx context.Context, userId int, bill RecurringBill) (bool, error)
	// Deactivate stamps the tombstone once. It affects no rows when the bill
	// is already deactivated, so the first deactivation time is preserved.
	Deactivate(ctx context.Context, userId int, billId int, at time.Time) (bool, error)
}

type BillRepoImpl struct {
	db *pgxpool.Pool
}

func NewBillRepo(db *pgxpool.Pool) *BillRepoImpl {
	return &BillRepoImpl{db: db}
}

func (r *BillRepoImpl) Store(ctx context.Context, userId int, bill RecurringBill) (int, error) {
	query := `INSERT INTO recurring_bill (user_id, name, description, amount_cents, due_day, frequency, category_id, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		bill.Name,
		bill.Description,
		int64(bill.Amount),
		bill.DueDay,
		bill.Frequency,
		nullableId(bill.CategoryId),
	).Scan(&id)
	if err != nil {
		log.Errorf("could not store recurring bill: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *BillRepoImpl) Get(ctx context.Context, userId int, billId int) (RecurringBill, error) {
	query := `SELECT id, name, description, amount_cents, due_day, frequency, category_id, is_active, deactivated_at, created_at
				FROM recurring_bill WHERE id = $1 AND user_id = $2`
	bill, err := scanBill(r.db.QueryRow(ctx, query, billId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return RecurringBill{}, ErrBillNotFound
	}
	if err != nil {
		log.Errorf("could not get recurring bill: %v", err)
		return RecurringBill{}, err
	}
	return bill, nil
}

func (r *BillRepoImpl) GetAll(ctx context.Context, userId int, includeInactive bool) ([]RecurringBill, error) {
	query := `SELECT id, name, description, amount_cents, due_day, frequency, category_id, is_active, deactivated_at, created_at
				FROM recurring_bill WHERE user_id = $1`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY due_day, name`

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not query recurring bills: %v", err)
		return nil, err
	}
	defer rows.Close()

	var bills []RecurringBill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			log.Errorf("could not scan recurring bill: %v", err)
			return nil, err
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over recurring bills: %v", err)
		return nil, err
	}
	return bills, nil
}

func (r *BillRepoImpl) Update(ctx context.Context, userId int, bill RecurringBill) (bool, error) {
	query := `UPDATE recurring_bill SET name = $1, description = $2, amount_cents = $3, due_day = $4, frequency = $5, category_id = $6
				WHERE id = $7 AND user_id = $8`
	tag, err := r.db.Exec(ctx, query,
		bill.Name,
		bill.Description,
		int64(bill.Amount),
		bill.DueDay,
		bill.Frequency,
		nullableId(bill.CategoryId),
		bill.ID,
		userId,
	)
	if err != nil {
		log.Errorf("could not update recurring bill: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BillRepoImpl) Deactivate(ctx context.Context, userId int, billId int, at time.Time) (bool, error) {
	query := `UPDATE recurring_bill SET is_active = FALSE, deactivated_at = $1
				WHERE id = $2 AND user_id = $3 AND deactivated_at IS NULL`
	tag, err := r.db.Exec(ctx, query, at, billId, userId)
	if err != nil {
		log.Errorf("could not deactivate recurring bill: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanBill(row pgx.Row) (RecurringBill, error) {
	var bill RecurringBill
	var amountCents int64
	var categoryId *int
	var deactivatedAt *time.Time
	if err := row.Scan(
		&bill.ID,
		&bill.Name,
		&bill.Description,
		&amountCents,
		&bill.DueDay,
		&bill.Frequency,
		&categoryId,
		&bill.IsActive,
		&deactivatedAt,
		&bill.CreatedAt,
	); err != nil {
		return RecurringBill{}, err
	}
	bill.Amount = money.Money(amountCents)
	if categoryId != nil {
		bill.CategoryId = *categoryId
	}
	if deactivatedAt != nil {
		bill.DeactivatedAt = *deactivatedAt
	}
	return bill, nil
}

func nullableId(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
