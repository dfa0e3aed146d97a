package inventory

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

var unitFolder = cases.Fold()

// UnitsMatch compara unidades sin distinguir mayúsculas (Kg == kg, ML == ml).
func UnitsMatch(a, b string) bool {
	return unitFolder.String(a) == unitFolder.String(b)
}

// ValidateRecipe verifica los campos obligatorios de cada alcance y los ingredientes.
//   - base: product_id obligatorio, combinación vacía.
//   - variant_specific: combinación no vacía; product_id opcional.
//   - product_override: product_id y combinación obligatorios.
func ValidateRecipe(r *entity.Recipe) error {
	if r == nil {
		return domain.ErrInvalidInput
	}
	switch r.Scope {
	case entity.ScopeBase:
		if r.ProductID == "" {
			return invalid("la receta base requiere product_id")
		}
		if len(r.VariantCombination) > 0 {
			return invalid("la receta base no admite combinación de variantes")
		}
	case entity.ScopeVariantSpecific:
		if len(r.VariantCombination) == 0 {
			return invalid("la receta de variante requiere al menos una opción")
		}
	case entity.ScopeProductOverride:
		if r.ProductID == "" || len(r.VariantCombination) == 0 {
			return invalid("el override requiere product_id y combinación de variantes")
		}
	default:
		return invalid(fmt.Sprintf("alcance desconocido %q", r.Scope))
	}
	for g, o := range r.VariantCombination {
		if g == "" || o == "" {
			return invalid("grupo y opción de variante no pueden ser vacíos")
		}
	}
	if len(r.Ingredients) == 0 {
		return invalid("la receta requiere al menos un ingrediente")
	}
	seen := make(map[string]struct{}, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.InventoryItemID == "" {
			return invalid("ingrediente sin inventory_item_id")
		}
		if !ing.QuantityNeeded.IsPositive() {
			return fmt.Errorf("%w: quantity_needed debe ser > 0 para %s", domain.ErrInvalidQuantity, ing.InventoryItemID)
		}
		if _, dup := seen[ing.InventoryItemID]; dup {
			return invalid(fmt.Sprintf("ingrediente %s repetido", ing.InventoryItemID))
		}
		seen[ing.InventoryItemID] = struct{}{}
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
