// Package cache decora el catálogo de recetas con una cache de lectura en Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

var _ repository.RecipeRepository = (*RecipeCache)(nil)

const defaultKeyPrefix = "pos:recipes:"

// RecipeCache read-through sobre un RecipeRepository. Las claves incluyen un contador de
// generación que se incrementa en cada escritura; así una escritura invalida todas las lecturas
// sin recorrer claves. Un fallo de Redis degrada a lectura directa del store.
type RecipeCache struct {
	inner  repository.RecipeRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewRecipeCache envuelve inner. prefix vacío usa el prefijo por defecto.
func NewRecipeCache(inner repository.RecipeRepository, client *redis.Client, prefix string, ttl time.Duration, log *logger.Logger) *RecipeCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RecipeCache{inner: inner, client: client, prefix: prefix, ttl: ttl, log: log.Named("recipe_cache")}
}

func (c *RecipeCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.prefix+"gen").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RecipeCache) bump(ctx context.Context) {
	if err := c.client.Incr(ctx, c.prefix+"gen").Err(); err != nil {
		// Sin el incremento las lecturas podrían quedar obsoletas hasta el TTL.
		c.log.Error().Err(err).Msg("no se pudo invalidar la cache de recetas")
	}
}

// cached resuelve parts en Redis o, si no está, con load; guarda el resultado (incluido nil).
func cached[T any](ctx context.Context, c *RecipeCache, load func() (T, error), parts ...string) (T, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("redis no disponible, lectura directa")
		return load()
	}
	key := fmt.Sprintf("%sv%d:%s", c.prefix, gen, strings.Join(parts, ":"))

	var out T
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, &out); jerr == nil {
			return out, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de cache corrupta, se recarga")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("redis no disponible, lectura directa")
		return load()
	}

	out, err = load()
	if err != nil {
		return out, err
	}
	if payload, jerr := json.Marshal(out); jerr == nil {
		if serr := c.client.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Str("key", key).Msg("no se pudo guardar en cache")
		}
	}
	return out, nil
}

func (c *RecipeCache) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	return cached(ctx, c, func() (*entity.Recipe, error) { return c.inner.GetByID(ctx, id) }, "id", id)
}

func (c *RecipeCache) GetBase(ctx context.Context, productID string) (*entity.Recipe, error) {
	return cached(ctx, c, func() (*entity.Recipe, error) { return c.inner.GetBase(ctx, productID) }, "base", productID)
}

func (c *RecipeCache) GetOverride(ctx context.Context, productID string, combination entity.VariantCombination) (*entity.Recipe, error) {
	return cached(ctx, c, func() (*entity.Recipe, error) {
		return c.inner.GetOverride(ctx, productID, combination)
	}, "override", productID, combination.Key())
}

func (c *RecipeCache) ListVariantCandidates(ctx context.Context, productID string, optionIDs []string) ([]*entity.Recipe, error) {
	return cached(ctx, c, func() ([]*entity.Recipe, error) {
		return c.inner.ListVariantCandidates(ctx, productID, optionIDs)
	}, "variants", productID, strings.Join(optionIDs, ","))
}

func (c *RecipeCache) List(ctx context.Context, productID string) ([]*entity.Recipe, error) {
	return cached(ctx, c, func() ([]*entity.Recipe, error) { return c.inner.List(ctx, productID) }, "list", productID)
}

func (c *RecipeCache) Upsert(ctx context.Context, recipe *entity.Recipe) error {
	if err := c.inner.Upsert(ctx, recipe); err != nil {
		return err
	}
	c.bump(ctx)
	return nil
}

func (c *RecipeCache) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.bump(ctx)
	return nil
}
