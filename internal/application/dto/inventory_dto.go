package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/inventory/items.
type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Category     string          `json:"category" validate:"max=60"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Supplier     string          `json:"supplier" validate:"max=120"`
}

// ItemResponse ítem de inventario con su clasificación de stock.
type ItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	Unit            string          `json:"unit"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	Supplier        string          `json:"supplier,omitempty"`
	Status          string          `json:"status"` // in_stock, low_stock, out_of_stock
	LastRestockedAt *time.Time      `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ItemListRequest query de GET /api/inventory/items.
// La paginación se lee aparte con PageRequest.
type ItemListRequest struct {
	Category string `query:"category" validate:"max=60"`
	Status   string `query:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock"`
}

// ItemListResponse listado paginado de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RestockRequest body para POST /api/inventory/items/:id/restock.
type RestockRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes    string           `json:"notes" validate:"max=500"`
}

// AdjustRequest body para POST /api/inventory/items/:id/adjust.
type AdjustRequest struct {
	NewStock decimal.Decimal `json:"new_stock"`
	Reason   string          `json:"reason" validate:"required,max=60"`
	Notes    string          `json:"notes" validate:"max=500"`
}

// DeleteItemRequest body opcional para DELETE /api/inventory/items/:id.
type DeleteItemRequest struct {
	Reason string `json:"reason" validate:"max=120"`
}

// ConsumeRequest body para POST /api/sales/consume.
type ConsumeRequest struct {
	ProductID string            `json:"product_id" validate:"required,max=64"`
	Variants  map[string]string `json:"variants"`
	Units     decimal.Decimal   `json:"units"`
	Reference string            `json:"reference" validate:"max=120"`
}

// ConsumeResponse receta aplicada y movimientos generados.
type ConsumeResponse struct {
	Source       string                `json:"source"`
	RecipeID     string                `json:"recipe_id,omitempty"`
	Replayed     bool                  `json:"replayed"`
	Transactions []TransactionResponse `json:"transactions"`
}

// TransactionResponse entrada del libro de stock.
type TransactionResponse struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	InventoryItemID string           `json:"inventory_item_id"`
	QuantityDelta   decimal.Decimal  `json:"quantity_delta"`
	PreviousStock   decimal.Decimal  `json:"previous_stock"`
	NewStock        decimal.Decimal  `json:"new_stock"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	PerformedBy     string           `json:"performed_by,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TransactionListRequest query de GET /api/inventory/transactions. Fechas en RFC3339.
// La paginación se lee aparte con PageRequest.
type TransactionListRequest struct {
	ItemID string `query:"item_id" validate:"max=64"`
	Type   string `query:"type" validate:"omitempty,oneof=restock adjustment consumption deletion"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AuditIssue inconsistencia encontrada al reproducir el libro.
type AuditIssue struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// AuditResponse resultado de reproducir el libro de un ítem contra su stock vivo.
type AuditResponse struct {
	ItemID           string          `json:"item_id"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	ReplayedStock    decimal.Decimal `json:"replayed_stock"`
	TransactionCount int             `json:"transaction_count"`
	Consistent       bool            `json:"consistent"`
	Issues           []AuditIssue    `json:"issues,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en bajo stock o agotado.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	ItemName           string          `json:"item_name"`
	Unit               string          `json:"unit"`
	Supplier           string          `json:"supplier,omitempty"`
	Status             string          `json:"status"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderLevel       decimal.Decimal `json:"reorder_level"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // ReorderLevel * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	AverageCost        decimal.Decimal `json:"average_cost"`         // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * AverageCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
