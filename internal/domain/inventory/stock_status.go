package inventory

import "github.com/shopspring/decimal"

// StockStatus clasificación de lectura del nivel de stock.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// Classify: out_of_stock si current == 0; low_stock si 0 < current <= reorderLevel; in_stock en otro caso.
// Solo para reportes; nunca bloquea escrituras.
func Classify(current, reorderLevel decimal.Decimal) StockStatus {
	switch {
	case current.LessThanOrEqual(decimal.Zero):
		return StatusOutOfStock
	case current.LessThanOrEqual(reorderLevel):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ParseStockStatus valida un estado recibido desde afuera (query string).
func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(s) {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return StockStatus(s), true
	}
	return "", false
}
