package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad de la unidad de trabajo stock + libro.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		ledgerRepo repository.StockTransactionRepository,
	) error) error
}

// RecipeResolver resuelve la lista efectiva de ingredientes de un producto vendido.
// Lo implementa *recipe.CatalogUseCase.
type RecipeResolver interface {
	ResolveRecipe(ctx context.Context, productID string, selection entity.VariantCombination) (domaininv.Resolution, error)
}
