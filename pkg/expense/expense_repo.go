package expense

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type ExpenseRepo interface {
	Store(ctx context.Context, userId int, expense Expense) (int, error)
	Get(ctx context.Context, userId int, expenseId int) (Expense, error)
	// GetAll returns the user's expenses, optionally restricted to a month
	// when year and month are non-zero.
	GetAll(ctx context.Context, userId int, year int, month int) ([]Expense, error)
	Update(ctx context.Context, userId int, expense Expense) (bool, error)
	Delete(ctx context.Context, userId int, expenseId int) (bool, error)
}

type ExpenseRepoImpl struct {
	db *pgxpool.Pool
}

func NewExpenseRepo(db *pgxpool.Pool) *ExpenseRepoImpl {
	return &ExpenseRepoImpl{db: db}
}

func (r *ExpenseRepoImpl) Store(ctx context.Context, userId int, expense Expense) (int, error) {
	query := `INSERT INTO expense (user_id, title, amount_cents, description, date, category_id)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		expense.Title,
		int64(expense.Amount),
		expense.Description,
		expense.Date,
		nullableId(expense.CategoryId),
	).Scan(&id)
	if err != nil {
		log.Errorf("could not store expense: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *ExpenseRepoImpl) Get(ctx context.Context, userId int, expenseId int) (Expense, error) {
	query := `SELECT id, title, amount_cents, description, date, category_id
				FROM expense WHERE id = $1 AND user_id = $2`
	expense, err := scanExpense(r.db.QueryRow(ctx, query, expenseId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrExpenseNotFound
	}
	if err != nil {
		log.Errorf("could not get expense: %v", err)
		return Expense{}, err
	}
	return expense, nil
}

func (r *ExpenseRepoImpl) GetAll(ctx context.Context, userId int, year int, month int) ([]Expense, error) {
	query := `SELECT id, title, amount_cents, description, date, category_id
				FROM expense WHERE user_id = $1`
	args := []any{userId}
	if year != 0 && month != 0 {
		query += ` AND date >= $2 AND date < $3`
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		args = append(args, from, from.AddDate(0, 1, 0))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Errorf("could not query expenses: %v", err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			log.Errorf("could not scan expense: %v", err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over expenses: %v", err)
		return nil, err
	}
	return expenses, nil
}

func (r *ExpenseRepoImpl) Update(ctx context.Context, userId int, expense Expense) (bool, error) {
	query := `UPDATE expense SET title = $1, amount_cents = $2, description = $3, date = $4, category_id = $5
				WHERE id = $6 AND user_id = $7`
	tag, err := r.db.Exec(ctx, query,
		expense.Title,
		int64(expense.Amount),
		expense.Description,
		expense.Date,
		nullableId(expense.CategoryId),
		expense.ID,
		userId,
	)
	if err != nil {
		log.Errorf("could not update expense: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ExpenseRepoImpl) Delete(ctx context.Context, userId int, expenseId int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM expense WHERE id = $1 AND user_id = $2`, expenseId, userId)
	if err != nil {
		log.Errorf("could not delete expense: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanExpense(row pgx.Row) (Expense, error) {
	var expense Expense
	var amountCents int64
	var categoryId *int
	if err := row.Scan(
		&expense.ID,
		&expense.Title,
		&amountCents,
		&expense.Description,
		&expense.Date,
		&categoryId,
	); err != nil {
		return Expense{}, err
	}
	expense.Amount = money.Money(amountCents)
	if categoryId != nil {
		expense.CategoryId = *categoryId
	}
	return expense, nil
}

func nullableId(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
