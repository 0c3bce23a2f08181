package investment

import "context"

type Service interface {
	Create(ctx context.Context, investment Investment) (Investment, error)
	Get(ctx context.Context, investmentId int) (Investment, error)
	GetAll(ctx context.Context) ([]Investment, error)
	Update(ctx context.Context, investment Investment) (Investment, error)
	Delete(ctx context.Context, investmentId int) error
}

type InvestmentServiceImpl struct {
	repo InvestmentRepo
}

func NewInvestmentService(repo InvestmentRepo) *InvestmentServiceImpl {
	return &InvestmentServiceImpl{repo: repo}
}

func (s *InvestmentServiceImpl) Create(ctx context.Context, investment Investment) (Investment, error) {
	id, err := s.repo.Store(ctx, investment)
	if err != nil {
		return Investment{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *InvestmentServiceImpl) Get(ctx context.Context, investmentId int) (Investment, error) {
	return s.repo.Get(ctx, investmentId)
}

func (s *InvestmentServiceImpl) GetAll(ctx context.Context) ([]Investment, error) {
	return s.repo.GetAll(ctx)
}

func (s *InvestmentServiceImpl) Update(ctx context.Context, investment Investment) (Investment, error) {
	updated, err := s.repo.Update(ctx, investment)
	if err != nil {
		return Investment{}, err
	}
	if !updated {
		return Investment{}, ErrInvestmentNotFound
	}
	return s.repo.Get(ctx, investment.ID)
}

func (s *InvestmentServiceImpl) Delete(ctx context.Context, investmentId int) error {
	deleted, err := s.repo.Delete(ctx, investmentId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrInvestmentNotFound
	}
	return nil
}
