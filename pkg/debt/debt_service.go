package debt

import (
	"context"
	"fmt"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

type Service interface {
	Create(ctx context.Context, debt Debt) (Debt, error)
	Get(ctx context.Context, debtId int) (Debt, error)
	GetAll(ctx context.Context, onlyUnpaid bool) ([]Debt, error)
	Update(ctx context.Context, debt Debt) (Debt, error)
	MarkPaid(ctx context.Context, debtId int) (Debt, error)
	MarkUnpaid(ctx context.Context, debtId int) (Debt, error)
	Delete(ctx context.Context, debtId int) error
}

type DebtServiceImpl struct {
	repo DebtRepo
}

func NewDebtService(repo DebtRepo) *DebtServiceImpl {
	return &DebtServiceImpl{repo: repo}
}

func (s *DebtServiceImpl) Create(ctx context.Context, debt Debt) (Debt, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Debt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	id, err := s.repo.Store(ctx, userId, debt)
	if err != nil {
		return Debt{}, err
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *DebtServiceImpl) Get(ctx context.Context, debtId int) (Debt, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Debt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, debtId)
}

func (s *DebtServiceImpl) GetAll(ctx context.Context, onlyUnpaid bool) ([]Debt, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, onlyUnpaid)
}

func (s *DebtServiceImpl) Update(ctx context.Context, debt Debt) (Debt, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Debt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, debt)
	if err != nil {
		return Debt{}, err
	}
	if !updated {
		return Debt{}, ErrDebtNotFound
	}
	return s.repo.Get(ctx, userId, debt.ID)
}

func (s *DebtServiceImpl) MarkPaid(ctx context.Context, debtId int) (Debt, error) {
	return s.setPaid(ctx, debtId, true)
}

func (s *DebtServiceImpl) MarkUnpaid(ctx context.Context, debtId int) (Debt, error) {
	return s.setPaid(ctx, debtId, false)
}

func (s *DebtServiceImpl) setPaid(ctx context.Context, debtId int, paid bool) (Debt, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Debt{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.SetPaid(ctx, userId, debtId, paid)
	if err != nil {
		return Debt{}, err
	}
	if !updated {
		return Debt{}, ErrDebtNotFound
	}
	return s.repo.Get(ctx, userId, debtId)
}

func (s *DebtServiceImpl) Delete(ctx context.Context, debtId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, debtId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDebtNotFound
	}
	return nil
}
