package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeIngredientDTO ingrediente de una receta. Unit vacía toma la unidad del ítem.
type RecipeIngredientDTO struct {
	InventoryItemID string          `json:"inventory_item_id" validate:"required,max=64"`
	QuantityNeeded  decimal.Decimal `json:"quantity_needed"`
	Unit            string          `json:"unit,omitempty" validate:"max=20"`
}

// UpsertRecipeRequest body para POST /api/recipes. Con ID reemplaza la receta existente.
type UpsertRecipeRequest struct {
	ID          string                `json:"id,omitempty" validate:"omitempty,uuid"`
	Name        string                `json:"name" validate:"max=120"`
	Scope       string                `json:"scope" validate:"required,oneof=base variant_specific product_override"`
	ProductID   string                `json:"product_id,omitempty" validate:"max=64"`
	Variants    map[string]string     `json:"variants,omitempty"`
	Ingredients []RecipeIngredientDTO `json:"ingredients" validate:"required,min=1,dive"`
}

// RecipeResponse receta con sus ingredientes.
type RecipeResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name,omitempty"`
	Scope       string                `json:"scope"`
	ProductID   string                `json:"product_id,omitempty"`
	Variants    map[string]string     `json:"variants,omitempty"`
	Ingredients []RecipeIngredientDTO `json:"ingredients"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ResolveRecipeRequest body para POST /api/recipes/resolve.
type ResolveRecipeRequest struct {
	ProductID string            `json:"product_id" validate:"required,max=64"`
	Variants  map[string]string `json:"variants"`
}

// ResolveRecipeResponse lista efectiva de ingredientes por unidad vendida.
type ResolveRecipeResponse struct {
	Source      string                `json:"source"` // product_override, variant_specific, base, none
	RecipeID    string                `json:"recipe_id,omitempty"`
	Ingredients []RecipeIngredientDTO `json:"ingredients"`
}
