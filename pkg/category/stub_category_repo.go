package category

import (
	"context"
	"sort"
	"sync"
)

type StubCategoryRepo struct {
	mu     sync.Mutex
	nextId int
	data   map[int]Category
}

func NewStubCategoryRepo() *StubCategoryRepo {
	return &StubCategoryRepo{data: map[int]Category{}}
}

func (s *StubCategoryRepo) Store(ctx context.Context, category Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data {
		if existing.Name == category.Name {
			return 0, ErrCategoryNameTaken
		}
	}
	s.nextId++
	category.ID = s.nextId
	s.data[category.ID] = category
	return category.ID, nil
}

func (s *StubCategoryRepo) Get(ctx context.Context, categoryId int) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data[categoryId]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (s *StubCategoryRepo) GetBySlug(ctx context.Context, slug string) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func (s *StubCategoryRepo) GetAll(ctx context.Context) ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := make([]Category, 0, len(s.data))
	for _, c := range s.data {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *StubCategoryRepo) Update(ctx context.Context, category Category) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[category.ID]; !ok {
		return false, nil
	}
	for _, existing := range s.data {
		if existing.ID != category.ID && existing.Name == category.Name {
			return false, ErrCategoryNameTaken
		}
	}
	s.data[category.ID] = category
	return true, nil
}

func (s *StubCategoryRepo) Delete(ctx context.Context, categoryId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[categoryId]; !ok {
		return false, nil
	}
	delete(s.data, categoryId)
	return true, nil
}

func (s *StubCategoryRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int]Category{}
}
