//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/cache"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

// Una lectura queda en cache; una escritura incrementa la generación y la siguiente lectura ve el cambio.
func TestRecipeCache_InvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)
	store := memory.NewStore()
	c := cache.NewRecipeCache(store.Recipes(), client, "it:", time.Minute, nil)

	base := &entity.Recipe{
		ID: "r1", Scope: entity.ScopeBase, ProductID: "latte",
		Ingredients: []entity.RecipeIngredient{
			{RecipeID: "r1", InventoryItemID: "coffee", QuantityNeeded: decimal.NewFromInt(15), Unit: "g"},
		},
	}
	require.NoError(t, c.Upsert(ctx, base))

	got, err := c.GetBase(ctx, "latte")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Ingredients[0].QuantityNeeded.Equal(decimal.NewFromInt(15)))

	keys, err := client.Keys(ctx, "it:v*").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, keys)

	base.Ingredients[0].QuantityNeeded = decimal.NewFromInt(18)
	require.NoError(t, c.Upsert(ctx, base))

	got, err = c.GetBase(ctx, "latte")
	require.NoError(t, err)
	assert.True(t, got.Ingredients[0].QuantityNeeded.Equal(decimal.NewFromInt(18)))

	gen, err := client.Get(ctx, "it:gen").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}
