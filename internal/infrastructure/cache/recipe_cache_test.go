package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/cache"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

// Redis inalcanzable: toda lectura y escritura debe caer al store sin error.
func TestRecipeCache_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewStore()
	c := cache.NewRecipeCache(store.Recipes(), client, "test:", time.Minute, nil)

	recipe := &entity.Recipe{
		ID:        "r-base",
		Scope:     entity.ScopeBase,
		ProductID: "latte",
		Ingredients: []entity.RecipeIngredient{
			{RecipeID: "r-base", InventoryItemID: "coffee", QuantityNeeded: decimal.NewFromInt(15), Unit: "g"},
		},
	}
	require.NoError(t, c.Upsert(ctx, recipe))

	got, err := c.GetBase(ctx, "latte")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "r-base", got.ID)

	missing, err := c.GetOverride(ctx, "latte", entity.VariantCombination{"size": "large"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := c.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.Delete(ctx, "r-base"))
	got, err = c.GetByID(ctx, "r-base")
	require.NoError(t, err)
	assert.Nil(t, got)
}
