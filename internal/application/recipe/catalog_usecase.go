package recipe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// CatalogUseCase catálogo de recetas (base, de variante y overrides) y su resolución.
// Implementa inventory.RecipeResolver.
type CatalogUseCase struct {
	repo     repository.RecipeRepository
	itemRepo repository.InventoryItemRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.RecipeRepository, itemRepo repository.InventoryItemRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, itemRepo: itemRepo}
}

// GetBaseRecipe devuelve la receta base del producto o nil.
func (uc *CatalogUseCase) GetBaseRecipe(ctx context.Context, productID string) (*entity.Recipe, error) {
	return uc.repo.GetBase(ctx, productID)
}

// GetOverrideRecipe devuelve el override exacto (producto, combinación) o nil.
func (uc *CatalogUseCase) GetOverrideRecipe(ctx context.Context, productID string, combination entity.VariantCombination) (*entity.Recipe, error) {
	if productID == "" || len(combination) == 0 {
		return nil, nil
	}
	return uc.repo.GetOverride(ctx, productID, combination)
}

// GetVariantRecipe devuelve la receta de variante que aplica a la selección (ver
// domaininv.MatchVariantRecipe). productID puede ser vacío: solo recetas genéricas.
func (uc *CatalogUseCase) GetVariantRecipe(ctx context.Context, productID string, selection entity.VariantCombination) (*entity.Recipe, error) {
	if len(selection) == 0 {
		return nil, nil
	}
	candidates, err := uc.repo.ListVariantCandidates(ctx, productID, selection.OptionIDs())
	if err != nil {
		return nil, err
	}
	return domaininv.MatchVariantRecipe(productID, selection, candidates)
}

// ResolveRecipe devuelve la lista efectiva de ingredientes para una unidad vendida.
// Solo consulta el siguiente nivel si el anterior no aplica.
func (uc *CatalogUseCase) ResolveRecipe(ctx context.Context, productID string, selection entity.VariantCombination) (domaininv.Resolution, error) {
	if productID == "" {
		return domaininv.Resolution{Source: domaininv.SourceNone}, domain.ErrInvalidInput
	}
	var c domaininv.Candidates
	var err error
	if c.Override, err = uc.GetOverrideRecipe(ctx, productID, selection); err != nil {
		return domaininv.Resolution{Source: domaininv.SourceNone}, err
	}
	if c.Override == nil && len(selection) > 0 {
		if c.Variants, err = uc.repo.ListVariantCandidates(ctx, productID, selection.OptionIDs()); err != nil {
			return domaininv.Resolution{Source: domaininv.SourceNone}, err
		}
	}
	res, err := domaininv.Resolve(productID, selection, c)
	if err != nil || res.Found() {
		return res, err
	}
	if c.Base, err = uc.repo.GetBase(ctx, productID); err != nil {
		return domaininv.Resolution{Source: domaininv.SourceNone}, err
	}
	return domaininv.Resolve(productID, selection, c)
}

// GetRecipe obtiene una receta por ID. domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) GetRecipe(ctx context.Context, id string) (*entity.Recipe, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.RecipeNotFound(id)
	}
	return r, nil
}

// ListRecipes lista las recetas de un producto (todas si productID es vacío).
func (uc *CatalogUseCase) ListRecipes(ctx context.Context, productID string) ([]*entity.Recipe, error) {
	return uc.repo.List(ctx, productID)
}

// UpsertRecipe valida y guarda la receta. Los ingredientes deben referir ítems activos con la
// misma unidad; un ingrediente sin unidad toma la del ítem.
// Devuelve domain.ErrDuplicateRecipe si ya hay otra receta con el mismo (alcance, producto, combinación).
func (uc *CatalogUseCase) UpsertRecipe(ctx context.Context, r *entity.Recipe) (*entity.Recipe, error) {
	if err := domaininv.ValidateRecipe(r); err != nil {
		return nil, err
	}
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		item, err := uc.itemRepo.GetByID(ctx, ing.InventoryItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.IsDeleted() {
			return nil, domain.ItemNotFound(ing.InventoryItemID)
		}
		if ing.Unit == "" {
			ing.Unit = item.Unit
		} else if !domaininv.UnitsMatch(ing.Unit, item.Unit) {
			return nil, fmt.Errorf("%w: %s usa %q, el ítem %s usa %q", domain.ErrUnitMismatch, ing.InventoryItemID, ing.Unit, item.Name, item.Unit)
		}
	}

	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.New().String()
		r.CreatedAt = now
	} else {
		existing, err := uc.repo.GetByID(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			r.CreatedAt = existing.CreatedAt
		} else {
			r.CreatedAt = now
		}
	}
	r.UpdatedAt = now
	for i := range r.Ingredients {
		r.Ingredients[i].RecipeID = r.ID
	}
	if r.Scope == entity.ScopeBase {
		r.VariantCombination = nil
	}
	if err := uc.repo.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRecipe elimina la receta y sus ingredientes.
func (uc *CatalogUseCase) DeleteRecipe(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.repo.Delete(ctx, id)
}
