package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RecipeScope alcance de una receta.
type RecipeScope string

// Alcances de receta, de menor a mayor prioridad: base < variant_specific < product_override.
const (
	ScopeBase            RecipeScope = "base"
	ScopeVariantSpecific RecipeScope = "variant_specific"
	ScopeProductOverride RecipeScope = "product_override"
)

// Valid indica si el alcance es conocido.
func (s RecipeScope) Valid() bool {
	switch s {
	case ScopeBase, ScopeVariantSpecific, ScopeProductOverride:
		return true
	}
	return false
}

// VariantCombination mapea grupo de variante -> opción elegida (ej. size -> large).
type VariantCombination map[string]string

// Key forma canónica "grupo=opción;..." ordenada por grupo. Vacía para la combinación vacía.
func (c VariantCombination) Key() string {
	if len(c) == 0 {
		return ""
	}
	groups := make([]string, 0, len(c))
	for g := range c {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(g)
		b.WriteByte('=')
		b.WriteString(c[g])
	}
	return b.String()
}

// Equal compara dos combinaciones ignorando el orden.
func (c VariantCombination) Equal(other VariantCombination) bool {
	if len(c) != len(other) {
		return false
	}
	for g, o := range c {
		if other[g] != o {
			return false
		}
	}
	return true
}

// Within indica si todos los pares (grupo, opción) de c están presentes en selection.
func (c VariantCombination) Within(selection VariantCombination) bool {
	for g, o := range c {
		if selection[g] != o {
			return false
		}
	}
	return true
}

// OptionIDs devuelve las opciones seleccionadas, ordenadas.
func (c VariantCombination) OptionIDs() []string {
	out := make([]string, 0, len(c))
	for _, o := range c {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// RecipeIngredient cantidad de un ítem de inventario requerida por una unidad vendida.
type RecipeIngredient struct {
	RecipeID        string
	InventoryItemID string
	QuantityNeeded  decimal.Decimal // > 0
	Unit            string          // debe coincidir con InventoryItem.Unit
}

// Recipe lista de ingredientes asociada a un producto y/o combinación de variantes.
// ProductID vacío solo es válido en recetas variant_specific (aplican a cualquier producto).
type Recipe struct {
	ID                 string
	Name               string
	Scope              RecipeScope
	ProductID          string
	VariantCombination VariantCombination
	Ingredients        []RecipeIngredient
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Key clave de unicidad (scope, producto, combinación).
func (r *Recipe) Key() string {
	return string(r.Scope) + "|" + r.ProductID + "|" + r.VariantCombination.Key()
}
