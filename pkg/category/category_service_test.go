package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	service := NewCategoryService(NewStubCategoryRepo())
	ctx := context.Background()

	t.Run("create slugifies the name", func(t *testing.T) {
		c, err := service.Create(ctx, Category{Name: "Contas Fixas"})
		require.NoError(t, err)
		assert.Equal(t, "contas-fixas", c.Slug)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := service.Create(ctx, Category{Name: "Contas Fixas"})
		assert.ErrorIs(t, err, ErrCategoryNameTaken)
	})

	t.Run("rename regenerates the slug", func(t *testing.T) {
		c, err := service.Create(ctx, Category{Name: "Lazer"})
		require.NoError(t, err)

		c.Name = "Lazer e Viagens"
		updated, err := service.Update(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, "lazer-e-viagens", updated.Slug)
	})

	t.Run("delete by slug", func(t *testing.T) {
		c, err := service.Create(ctx, Category{Name: "Temporária"})
		require.NoError(t, err)
		require.NoError(t, service.Delete(ctx, c.Slug))
		_, err = service.Get(ctx, c.Slug)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}
