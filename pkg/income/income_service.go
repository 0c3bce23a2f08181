package income

import (
	"context"
	"fmt"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

type Service interface {
	Create(ctx context.Context, income Income) (Income, error)
	Get(ctx context.Context, incomeId int) (Income, error)
	GetAll(ctx context.Context) ([]Income, error)
	GetForMonth(ctx context.Context, year int, month int) ([]Income, error)
	Update(ctx context.Context, income Income) (Income, error)
	Delete(ctx context.Context, incomeId int) error
}

type IncomeServiceImpl struct {
	repo IncomeRepo
}

func NewIncomeService(repo IncomeRepo) *IncomeServiceImpl {
	return &IncomeServiceImpl{repo: repo}
}

func (s *IncomeServiceImpl) Create(ctx context.Context, income Income) (Income, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Income{}, fmt.Errorf("failed to get current user: %w", err)
	}
	id, err := s.repo.Store(ctx, userId, income)
	if err != nil {
		return Income{}, err
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *IncomeServiceImpl) Get(ctx context.Context, incomeId int) (Income, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Income{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, incomeId)
}

func (s *IncomeServiceImpl) GetAll(ctx context.Context) ([]Income, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, 0, 0)
}

func (s *IncomeServiceImpl) GetForMonth(ctx context.Context, year int, month int) ([]Income, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, year, month)
}

func (s *IncomeServiceImpl) Update(ctx context.Context, income Income) (Income, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Income{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, income)
	if err != nil {
		return Income{}, err
	}
	if !updated {
		return Income{}, ErrIncomeNotFound
	}
	return s.repo.Get(ctx, userId, income.ID)
}

func (s *IncomeServiceImpl) Delete(ctx context.Context, incomeId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, incomeId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrIncomeNotFound
	}
	return nil
}
