package inventory

import (
	"fmt"
	"slices"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// RecipeSource nivel de la receta que produjo la resolución.
type RecipeSource string

const (
	SourceOverride RecipeSource = "product_override"
	SourceVariant  RecipeSource = "variant_specific"
	SourceBase     RecipeSource = "base"
	SourceNone     RecipeSource = "none"
)

// Resolution resultado etiquetado de RecipeResolver: la receta elegida y su lista de ingredientes,
// o SourceNone con lista vacía cuando el producto no tiene consumo rastreable.
type Resolution struct {
	Source      RecipeSource
	Recipe      *entity.Recipe
	Ingredients []entity.RecipeIngredient
}

// Found indica si alguna receta aplicó.
func (r Resolution) Found() bool {
	return r.Source != SourceNone
}

// Candidates recetas leídas del catálogo para un (producto, selección).
type Candidates struct {
	Override *entity.Recipe
	Variants []*entity.Recipe
	Base     *entity.Recipe
}

// Resolve aplica la prioridad override > variante > base > nada.
// El override reemplaza por completo cualquier otro cálculo (no se mezcla).
func Resolve(productID string, selection entity.VariantCombination, c Candidates) (Resolution, error) {
	if c.Override != nil && c.Override.ProductID == productID && c.Override.VariantCombination.Equal(selection) {
		return resolved(SourceOverride, c.Override), nil
	}
	variant, err := MatchVariantRecipe(productID, selection, c.Variants)
	if err != nil {
		return Resolution{Source: SourceNone}, err
	}
	if variant != nil {
		return resolved(SourceVariant, variant), nil
	}
	if c.Base != nil && c.Base.ProductID == productID {
		return resolved(SourceBase, c.Base), nil
	}
	return Resolution{Source: SourceNone, Ingredients: []entity.RecipeIngredient{}}, nil
}

// MatchVariantRecipe elige la receta de variante para la selección.
//
// Una receta es candidata si todos sus pares (grupo, opción) están en la selección y, si está
// ligada a un producto, es ese producto. Gana la que declara más pares; a igual cantidad
// gana la ligada al producto sobre la genérica. Un empate restante es ErrAmbiguousRecipe.
func MatchVariantRecipe(productID string, selection entity.VariantCombination, variants []*entity.Recipe) (*entity.Recipe, error) {
	var best []*entity.Recipe
	for _, r := range variants {
		if r == nil || r.Scope != entity.ScopeVariantSpecific || len(r.VariantCombination) == 0 {
			continue
		}
		if r.ProductID != "" && r.ProductID != productID {
			continue
		}
		if !r.VariantCombination.Within(selection) {
			continue
		}
		if len(best) == 0 {
			best = []*entity.Recipe{r}
			continue
		}
		switch compareSpecificity(r, best[0]) {
		case 1:
			best = []*entity.Recipe{r}
		case 0:
			best = append(best, r)
		}
	}
	switch len(best) {
	case 0:
		return nil, nil
	case 1:
		return best[0], nil
	}
	ids := make([]string, 0, len(best))
	for _, r := range best {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return nil, fmt.Errorf("%w: %v para %q", domain.ErrAmbiguousRecipe, ids, selection.Key())
}

// compareSpecificity devuelve 1 si a es más específica que b, -1 si menos, 0 si empatan.
func compareSpecificity(a, b *entity.Recipe) int {
	if la, lb := len(a.VariantCombination), len(b.VariantCombination); la != lb {
		if la > lb {
			return 1
		}
		return -1
	}
	boundA, boundB := a.ProductID != "", b.ProductID != ""
	switch {
	case boundA && !boundB:
		return 1
	case !boundA && boundB:
		return -1
	}
	return 0
}

func resolved(source RecipeSource, r *entity.Recipe) Resolution {
	return Resolution{Source: source, Recipe: r, Ingredients: slices.Clone(r.Ingredients)}
}
