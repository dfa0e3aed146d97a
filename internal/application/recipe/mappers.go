package recipe

import (
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
)

// FromUpsertRequest construye la entidad desde el body HTTP; la validación de dominio ocurre en UpsertRecipe.
func FromUpsertRequest(in dto.UpsertRecipeRequest) *entity.Recipe {
	r := &entity.Recipe{
		ID:                 in.ID,
		Name:               in.Name,
		Scope:              entity.RecipeScope(in.Scope),
		ProductID:          in.ProductID,
		VariantCombination: entity.VariantCombination(in.Variants),
		Ingredients:        make([]entity.RecipeIngredient, 0, len(in.Ingredients)),
	}
	for _, ing := range in.Ingredients {
		r.Ingredients = append(r.Ingredients, entity.RecipeIngredient{
			InventoryItemID: ing.InventoryItemID,
			QuantityNeeded:  ing.QuantityNeeded,
			Unit:            ing.Unit,
		})
	}
	return r
}

// ToRecipeResponse convierte la receta al DTO.
func ToRecipeResponse(r *entity.Recipe) dto.RecipeResponse {
	return dto.RecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Scope:       string(r.Scope),
		ProductID:   r.ProductID,
		Variants:    map[string]string(r.VariantCombination),
		Ingredients: toIngredientDTOs(r.Ingredients),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToResolveResponse convierte una resolución al DTO.
func ToResolveResponse(res domaininv.Resolution) dto.ResolveRecipeResponse {
	out := dto.ResolveRecipeResponse{
		Source:      string(res.Source),
		Ingredients: toIngredientDTOs(res.Ingredients),
	}
	if res.Recipe != nil {
		out.RecipeID = res.Recipe.ID
	}
	return out
}

func toIngredientDTOs(list []entity.RecipeIngredient) []dto.RecipeIngredientDTO {
	out := make([]dto.RecipeIngredientDTO, 0, len(list))
	for _, ing := range list {
		out = append(out, dto.RecipeIngredientDTO{
			InventoryItemID: ing.InventoryItemID,
			QuantityNeeded:  ing.QuantityNeeded,
			Unit:            ing.Unit,
		})
	}
	return out
}
