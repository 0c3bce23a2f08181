package expense

import (
	"context"
	"fmt"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

type Service interface {
	Create(ctx context.Context, expense Expense) (Expense, error)
	Get(ctx context.Context, expenseId int) (Expense, error)
	GetAll(ctx context.Context) ([]Expense, error)
	GetForMonth(ctx context.Context, year int, month int) ([]Expense, error)
	Update(ctx context.Context, expense Expense) (Expense, error)
	Delete(ctx context.Context, expenseId int) error
}

type ExpenseServiceImpl struct {
	repo ExpenseRepo
}

func NewExpenseService(repo ExpenseRepo) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{repo: repo}
}

func (s *ExpenseServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	id, err := s.repo.Store(ctx, userId, expense)
	if err != nil {
		return Expense{}, err
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ExpenseServiceImpl) Get(ctx context.Context, expenseId int) (Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, expenseId)
}

func (s *ExpenseServiceImpl) GetAll(ctx context.Context) ([]Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, 0, 0)
}

func (s *ExpenseServiceImpl) GetForMonth(ctx context.Context, year int, month int) ([]Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, year, month)
}

func (s *ExpenseServiceImpl) Update(ctx context.Context, expense Expense) (Expense, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	updated, err := s.repo.Update(ctx, userId, expense)
	if err != nil {
		return Expense{}, err
	}
	if !updated {
		return Expense{}, ErrExpenseNotFound
	}
	return s.repo.Get(ctx, userId, expense.ID)
}

func (s *ExpenseServiceImpl) Delete(ctx context.Context, expenseId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, userId, expenseId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	return nil
}
