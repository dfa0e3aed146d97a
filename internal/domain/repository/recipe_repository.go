package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// RecipeRepository puerto del catálogo de recetas. Las lecturas devuelven nil, nil si no hay receta.
type RecipeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	GetBase(ctx context.Context, productID string) (*entity.Recipe, error)
	GetOverride(ctx context.Context, productID string, combination entity.VariantCombination) (*entity.Recipe, error)
	// ListVariantCandidates recetas variant_specific del producto o genéricas que incluyan
	// alguna de las opciones dadas.
	ListVariantCandidates(ctx context.Context, productID string, optionIDs []string) ([]*entity.Recipe, error)
	List(ctx context.Context, productID string) ([]*entity.Recipe, error)
	// Upsert inserta o reemplaza (por ID) la receta y sus ingredientes.
	// Devuelve domain.ErrDuplicateRecipe si otra receta ocupa la misma clave.
	Upsert(ctx context.Context, recipe *entity.Recipe) error
	// Delete elimina la receta y, en cascada, sus ingredientes. domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
