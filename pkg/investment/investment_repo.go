package investment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type InvestmentRepo interface {
	Store(ctx context.Context, investment Investment) (int, error)
	Get(ctx context.Context, investmentId int) (Investment, error)
	GetAll(ctx context.Context) ([]Investment, error)
	Update(ctx context.Context, investment Investment) (bool, error)
	Delete(ctx context.Context, investmentId int) (bool, error)
}

type InvestmentRepoImpl struct {
	db *pgxpool.Pool
}

func NewInvestmentRepo(db *pgxpool.Pool) *InvestmentRepoImpl {
	return &InvestmentRepoImpl{db: db}
}

func (r *InvestmentRepoImpl) Store(ctx context.Context, investment Investment) (int, error) {
	query := `INSERT INTO investment (type, amount_invested_cents, current_value_cents, date_invested, expected_return_bps)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		investment.Type,
		int64(investment.AmountInvested),
		int64(investment.CurrentValue),
		investment.DateInvested,
		investment.ExpectedReturn,
	).Scan(&id)
	if err != nil {
		log.Errorf("could not store investment: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *InvestmentRepoImpl) Get(ctx context.Context, investmentId int) (Investment, error) {
	query := `SELECT id, type, amount_invested_cents, current_value_cents, date_invested, expected_return_bps
				FROM investment WHERE id = $1`
	investment, err := scanInvestment(r.db.QueryRow(ctx, query, investmentId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Investment{}, ErrInvestmentNotFound
	}
	if err != nil {
		log.Errorf("could not get investment: %v", err)
		return Investment{}, err
	}
	return investment, nil
}

func (r *InvestmentRepoImpl) GetAll(ctx context.Context) ([]Investment, error) {
	query := `SELECT id, type, amount_invested_cents, current_value_cents, date_invested, expected_return_bps
				FROM investment ORDER BY date_invested DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("could not query investments: %v", err)
		return nil, err
	}
	defer rows.Close()

	var investments []Investment
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			log.Errorf("could not scan investment: %v", err)
			return nil, err
		}
		investments = append(investments, investment)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over investments: %v", err)
		return nil, err
	}
	return investments, nil
}

func (r *InvestmentRepoImpl) Update(ctx context.Context, investment Investment) (bool, error) {
	query := `UPDATE investment SET type = $1, amount_invested_cents = $2, current_value_cents = $3, date_invested = $4, expected_return_bps = $5
				WHERE id = $6`
	tag, err := r.db.Exec(ctx, query,
		investment.Type,
		int64(investment.AmountInvested),
		int64(investment.CurrentValue),
		investment.DateInvested,
		investment.ExpectedReturn,
		investment.ID,
	)
	if err != nil {
		log.Errorf("could not update investment: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InvestmentRepoImpl) Delete(ctx context.Context, investmentId int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM investment WHERE id = $1`, investmentId)
	if err != nil {
		log.Errorf("could not delete investment: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanInvestment(row pgx.Row) (Investment, error) {
	var investment Investment
	var invested, current int64
	if err := row.Scan(
		&investment.ID,
		&investment.Type,
		&invested,
		&current,
		&investment.DateInvested,
		&investment.ExpectedReturn,
	); err != nil {
		return Investment{}, err
	}
	investment.AmountInvested = money.Money(invested)
	investment.CurrentValue = money.Money(current)
	return investment, nil
}
