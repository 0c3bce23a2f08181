package debt

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type DebtRepo interface {
	Store(ctx context.Context, userId int, debt Debt) (int, error)
	Get(ctx context.Context, userId int, debtId int) (Debt, error)
	GetAll(ctx context.Context, userId int, onlyUnpaid bool) ([]Debt, error)
	Update(ctx context.Context, userId int, debt Debt) (bool, error)
	SetPaid(ctx context.Context, userId int, debtId int, paid bool) (bool, error)
	Delete(ctx context.Context, userId int, debtId int) (bool, error)
}

type DebtRepoImpl struct {
	db *pgxpool.Pool
}

func NewDebtRepo(db *pgxpool.Pool) *DebtRepoImpl {
	return &DebtRepoImpl{db: db}
}

func (r *DebtRepoImpl) Store(ctx context.Context, userId int, debt Debt) (int, error) {
	query := `INSERT INTO debt (user_id, name, amount_cents, description, date, due_date, paid, category_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		debt.Name,
		int64(debt.Amount),
		debt.Description,
		debt.Date,
		debt.DueDate,
		debt.Paid,
		nullableId(debt.CategoryId),
	).Scan(&id)
	if err != nil {
		log.Errorf("could not store debt: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *DebtRepoImpl) Get(ctx context.Context, userId int, debtId int) (Debt, error) {
	query := `SELECT id, name, amount_cents, description, date, due_date, paid, category_id
				FROM debt WHERE id = $1 AND user_id = $2`
	debt, err := scanDebt(r.db.QueryRow(ctx, query, debtId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Debt{}, ErrDebtNotFound
	}
	if err != nil {
		log.Errorf("could not get debt: %v", err)
		return Debt{}, err
	}
	return debt, nil
}

func (r *DebtRepoImpl) GetAll(ctx context.Context, userId int, onlyUnpaid bool) ([]Debt, error) {
	query := `SELECT id, name, amount_cents, description, date, due_date, paid, category_id
				FROM debt WHERE user_id = $1`
	if onlyUnpaid {
		query += ` AND NOT paid`
	}
	query += ` ORDER BY due_date, id`

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not query debts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var debts []Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			log.Errorf("could not scan debt: %v", err)
			return nil, err
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over debts: %v", err)
		return nil, err
	}
	return debts, nil
}

func (r *DebtRepoImpl) Update(ctx context.Context, userId int, debt Debt) (bool, error) {
	query := `UPDATE debt SET name = $1, amount_cents = $2, description = $3, date = $4, due_date = $5, category_id = $6
				WHERE id = $7 AND user_id = $8`
	tag, err := r.db.Exec(ctx, query,
		debt.Name,
		int64(debt.Amount),
		debt.Description,
		debt.Date,
		debt.DueDate,
		nullableId(debt.CategoryId),
		debt.ID,
		userId,
	)
	if err != nil {
		log.Errorf("could not update debt: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *DebtRepoImpl) SetPaid(ctx context.Context, userId int, debtId int, paid bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE debt SET paid = $1 WHERE id = $2 AND user_id = $3`, paid, debtId, userId)
	if err != nil {
		log.Errorf("could not set debt paid flag: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *DebtRepoImpl) Delete(ctx context.Context, userId int, debtId int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM debt WHERE id = $1 AND user_id = $2`, debtId, userId)
	if err != nil {
		log.Errorf("could not delete debt: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanDebt(row pgx.Row) (Debt, error) {
	var debt Debt
	var amountCents int64
	var categoryId *int
	if err := row.Scan(
		&debt.ID,
		&debt.Name,
		&amountCents,
		&debt.Description,
		&debt.Date,
		&debt.DueDate,
		&debt.Paid,
		&categoryId,
	); err != nil {
		return Debt{}, err
	}
	debt.Amount = money.Money(amountCents)
	if categoryId != nil {
		debt.CategoryId = *categoryId
	}
	return debt, nil
}

func nullableId(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
