package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un insumo del inventario del restaurante (harina, café, leche...).
// CurrentStock es un caché derivado del libro de movimientos: siempre igual al NewStock
// de la última StockTransaction del ítem.
type InventoryItem struct {
	ID              string
	Name            string
	Category        string
	Unit            string          // kg, g, l, ml, unidad...
	CurrentStock    decimal.Decimal // nunca negativo tras un commit
	ReorderLevel    decimal.Decimal // umbral de bajo stock
	AverageCost     decimal.Decimal // costo promedio ponderado de las reposiciones
	Supplier        string
	LastRestockedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// IsDeleted indica si el ítem fue dado de baja.
func (i *InventoryItem) IsDeleted() bool {
	return i.DeletedAt != nil
}

// ItemFilter filtros para listar ítems. Los campos vacíos no filtran.
type ItemFilter struct {
	Category       string
	IDs            []string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// StockChange resultado de una escritura atómica de stock: valores antes y después.
type StockChange struct {
	ItemID   string
	Previous decimal.Decimal
	New      decimal.Decimal
}

// Delta devuelve New - Previous.
func (c StockChange) Delta() decimal.Decimal {
	return c.New.Sub(c.Previous)
}
