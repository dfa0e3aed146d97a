package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo catálogo de recetas sobre PostgreSQL. La combinación se guarda en JSONB y
// su forma canónica en combination_key, que participa de los índices únicos.
type RecipeRepo struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository construye el adaptador.
func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepo {
	return &RecipeRepo{pool: pool}
}

const recipeColumns = `id, name, scope, COALESCE(product_id, ''), combination, created_at, updated_at`

func (r *RecipeRepo) queryRecipes(ctx context.Context, op, where string, args ...any) ([]*entity.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ` + where + ` ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var (
		list []*entity.Recipe
		ids  []string
	)
	for rows.Next() {
		var (
			rec   entity.Recipe
			scope string
			combo []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &scope, &rec.ProductID, &combo, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		rec.Scope = entity.RecipeScope(scope)
		if err := json.Unmarshal(combo, &rec.VariantCombination); err != nil {
			return nil, fmt.Errorf("decode combination for recipe %s: %w", rec.ID, err)
		}
		if len(rec.VariantCombination) == 0 {
			rec.VariantCombination = nil
		}
		list = append(list, &rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	if len(list) == 0 {
		return list, nil
	}
	if err := r.loadIngredients(ctx, list, ids); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *RecipeRepo) loadIngredients(ctx context.Context, list []*entity.Recipe, ids []string) error {
	rows, err := r.pool.Query(ctx, `
		SELECT recipe_id, inventory_item_id, quantity_needed, unit
		FROM recipe_ingredients WHERE recipe_id = ANY($1)
		ORDER BY recipe_id, position`, ids)
	if err != nil {
		return mapError("load recipe ingredients", err)
	}
	defer rows.Close()

	byID := make(map[string]*entity.Recipe, len(list))
	for _, rec := range list {
		byID[rec.ID] = rec
	}
	for rows.Next() {
		var ing entity.RecipeIngredient
		if err := rows.Scan(&ing.RecipeID, &ing.InventoryItemID, &ing.QuantityNeeded, &ing.Unit); err != nil {
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if rec, ok := byID[ing.RecipeID]; ok {
			rec.Ingredients = append(rec.Ingredients, ing)
		}
	}
	return rows.Err()
}

func (r *RecipeRepo) one(ctx context.Context, op, where string, args ...any) (*entity.Recipe, error) {
	list, err := r.queryRecipes(ctx, op, where+" LIMIT 1", args...)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	return r.one(ctx, "get recipe", "WHERE id = $1", id)
}

func (r *RecipeRepo) GetBase(ctx context.Context, productID string) (*entity.Recipe, error) {
	return r.one(ctx, "get base recipe", "WHERE scope = 'base' AND product_id = $1", productID)
}

func (r *RecipeRepo) GetOverride(ctx context.Context, productID string, combination entity.VariantCombination) (*entity.Recipe, error) {
	return r.one(ctx, "get override recipe",
		"WHERE scope = 'product_override' AND product_id = $1 AND combination_key = $2",
		productID, combination.Key())
}

// ListVariantCandidates recetas variant_specific del producto o genéricas con alguna opción
// de la selección. El filtro fino (combinación contenida en la selección) lo hace el resolver.
func (r *RecipeRepo) ListVariantCandidates(ctx context.Context, productID string, optionIDs []string) ([]*entity.Recipe, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	return r.queryRecipes(ctx, "list variant recipes", `
		WHERE scope = 'variant_specific'
		  AND (product_id IS NULL OR product_id = $1)
		  AND EXISTS (SELECT 1 FROM jsonb_each_text(combination) c WHERE c.value = ANY($2))`,
		productID, optionIDs)
}

func (r *RecipeRepo) List(ctx context.Context, productID string) ([]*entity.Recipe, error) {
	if productID == "" {
		return r.queryRecipes(ctx, "list recipes", "")
	}
	return r.queryRecipes(ctx, "list recipes", "WHERE product_id = $1", productID)
}

// Upsert reemplaza la receta y todos sus ingredientes en una transacción.
func (r *RecipeRepo) Upsert(ctx context.Context, recipe *entity.Recipe) error {
	combo := recipe.VariantCombination
	if combo == nil {
		combo = entity.VariantCombination{}
	}
	comboJSON, err := json.Marshal(combo)
	if err != nil {
		return fmt.Errorf("encode combination: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO recipes (id, name, scope, product_id, combination, combination_key, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			scope = EXCLUDED.scope,
			product_id = EXCLUDED.product_id,
			combination = EXCLUDED.combination,
			combination_key = EXCLUDED.combination_key,
			updated_at = EXCLUDED.updated_at`,
		recipe.ID, recipe.Name, string(recipe.Scope), recipe.ProductID, comboJSON, combo.Key(),
		recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRecipe
		}
		return mapError("upsert recipe", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipe.ID); err != nil {
		return mapError("replace recipe ingredients", err)
	}
	batch := &pgx.Batch{}
	for i, ing := range recipe.Ingredients {
		batch.Queue(`
			INSERT INTO recipe_ingredients (recipe_id, inventory_item_id, quantity_needed, unit, position)
			VALUES ($1, $2, $3, $4, $5)`,
			recipe.ID, ing.InventoryItemID, ing.QuantityNeeded, ing.Unit, i)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: ingrediente repetido", domain.ErrInvalidInput)
			}
			return mapError("insert recipe ingredients", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit recipe", err)
	}
	return nil
}

// Delete elimina la receta; los ingredientes se borran por ON DELETE CASCADE.
func (r *RecipeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return mapError("delete recipe", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.RecipeNotFound(id)
	}
	return nil
}
