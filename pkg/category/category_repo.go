package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type CategoryRepo interface {
	Store(ctx context.Context, category Category) (int, error)
	Get(ctx context.Context, categoryId int) (Category, error)
	GetBySlug(ctx context.Context, slug string) (Category, error)
	GetAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category Category) (bool, error)
	Delete(ctx context.Context, categoryId int) (bool, error)
}

type CategoryRepoImpl struct {
	db *pgxpool.Pool
}

func NewCategoryRepo(db *pgxpool.Pool) *CategoryRepoImpl {
	return &CategoryRepoImpl{db: db}
}

func (r *CategoryRepoImpl) Store(ctx context.Context, category Category) (int, error) {
	query := `INSERT INTO category (name, slug, description) VALUES ($1, $2, $3) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, category.Name, category.Slug, category.Description).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrCategoryNameTaken
	}
	if err != nil {
		log.Errorf("could not store category: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *CategoryRepoImpl) Get(ctx context.Context, categoryId int) (Category, error) {
	query := `SELECT id, name, slug, description FROM category WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, categoryId))
}

func (r *CategoryRepoImpl) GetBySlug(ctx context.Context, slug string) (Category, error) {
	query := `SELECT id, name, slug, description FROM category WHERE slug = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, slug))
}

func (r *CategoryRepoImpl) GetAll(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, description FROM category ORDER BY name`)
	if err != nil {
		log.Errorf("could not query categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			log.Errorf("could not scan category: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over categories: %v", err)
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepoImpl) Update(ctx context.Context, category Category) (bool, error) {
	query := `UPDATE category SET name = $1, slug = $2, description = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, category.Name, category.Slug, category.Description, category.ID)
	if isUniqueViolation(err) {
		return false, ErrCategoryNameTaken
	}
	if err != nil {
		log.Errorf("could not update category: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CategoryRepoImpl) Delete(ctx context.Context, categoryId int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM category WHERE id = $1`, categoryId)
	if err != nil {
		log.Errorf("could not delete category: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CategoryRepoImpl) scanOne(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	if err != nil {
		log.Errorf("could not get category: %v", err)
		return Category{}, err
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
