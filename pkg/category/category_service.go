package category

import (
	"context"

	"github.com/equilibrium-app/equilibrium/internal/utils"
)

type Service interface {
	Create(ctx context.Context, category Category) (Category, error)
	Get(ctx context.Context, slug string) (Category, error)
	GetAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, slug string) error
}

type CategoryServiceImpl struct {
	repo CategoryRepo
}

func NewCategoryService(repo CategoryRepo) *CategoryServiceImpl {
	return &CategoryServiceImpl{repo: repo}
}

func (s *CategoryServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	}
	id, err := s.repo.Store(ctx, category)
	if err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *CategoryServiceImpl) Get(ctx context.Context, slug string) (Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *CategoryServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *CategoryServiceImpl) Update(ctx context.Context, category Category) (Category, error) {
	existing, err := s.repo.Get(ctx, category.ID)
	if err != nil {
		return Category{}, err
	}
	if category.Name != existing.Name {
		category.Slug = utils.Slugify(category.Name)
	} else {
		category.Slug = existing.Slug
	}
	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return Category{}, err
	}
	if !updated {
		return Category{}, ErrCategoryNotFound
	}
	return s.repo.Get(ctx, category.ID)
}

func (s *CategoryServiceImpl) Delete(ctx context.Context, slug string) error {
	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, category.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}
