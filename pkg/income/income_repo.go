package income

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type IncomeRepo interface {
	Store(ctx context.Context, userId int, income Income) (int, error)
	Get(ctx context.Context, userId int, incomeId int) (Income, error)
	// GetAll returns the user's incomes, optionally restricted to a month
	// when year and month are non-zero.
	GetAll(ctx context.Context, userId int, year int, month int) ([]Income, error)
	Update(ctx context.Context, userId int, income Income) (bool, error)
	Delete(ctx context.Context, userId int, incomeId int) (bool, error)
}

type IncomeRepoImpl struct {
	db *pgxpool.Pool
}

func NewIncomeRepo(db *pgxpool.Pool) *IncomeRepoImpl {
	return &IncomeRepoImpl{db: db}
}

func (r *IncomeRepoImpl) Store(ctx context.Context, userId int, income Income) (int, error) {
	query := `INSERT INTO income (user_id, title, amount_cents, description, date, category_id)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		income.Title,
		int64(income.Amount),
		income.Description,
		income.Date,
		nullableId(income.CategoryId),
	).Scan(&id)
	if err != nil {
		log.Errorf("could not store income: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *IncomeRepoImpl) Get(ctx context.Context, userId int, incomeId int) (Income, error) {
	query := `SELECT id, title, amount_cents, description, date, category_id
				FROM income WHERE id = $1 AND user_id = $2`
	income, err := scanIncome(r.db.QueryRow(ctx, query, incomeId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Income{}, ErrIncomeNotFound
	}
	if err != nil {
		log.Errorf("could not get income: %v", err)
		return Income{}, err
	}
	return income, nil
}

func (r *IncomeRepoImpl) GetAll(ctx context.Context, userId int, year int, month int) ([]Income, error) {
	query := `SELECT id, title, amount_cents, description, date, category_id
				FROM income WHERE user_id = $1`
	args := []any{userId}
	if year != 0 && month != 0 {
		query += ` AND date >= $2 AND date < $3`
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		args = append(args, from, from.AddDate(0, 1, 0))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Errorf("could not query incomes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var incomes []Income
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			log.Errorf("could not scan income: %v", err)
			return nil, err
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over incomes: %v", err)
		return nil, err
	}
	return incomes, nil
}

func (r *IncomeRepoImpl) Update(ctx context.Context, userId int, income Income) (bool, error) {
	query := `UPDATE income SET title = $1, amount_cents = $2, description = $3, date = $4, category_id = $5
				WHERE id = $6 AND user_id = $7`
	tag, err := r.db.Exec(ctx, query,
		income.Title,
		int64(income.Amount),
		income.Description,
		income.Date,
		nullableId(income.CategoryId),
		income.ID,
		userId,
	)
	if err != nil {
		log.Errorf("could not update income: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IncomeRepoImpl) Delete(ctx context.Context, userId int, incomeId int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM income WHERE id = $1 AND user_id = $2`, incomeId, userId)
	if err != nil {
		log.Errorf("could not delete income: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanIncome(row pgx.Row) (Income, error) {
	var income Income
	var amountCents int64
	var categoryId *int
	if err := row.Scan(
		&income.ID,
		&income.Title,
		&amountCents,
		&income.Description,
		&income.Date,
		&categoryId,
	); err != nil {
		return Income{}, err
	}
	income.Amount = money.Money(amountCents)
	if categoryId != nil {
		income.CategoryId = *categoryId
	}
	return income, nil
}

func nullableId(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
