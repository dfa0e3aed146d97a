package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de movimiento del libro de stock.
type TransactionType string

// Tipos de movimiento.
const (
	TransactionRestock     TransactionType = "restock"     // entrada de mercadería
	TransactionAdjustment  TransactionType = "adjustment"  // corrección a un valor absoluto
	TransactionConsumption TransactionType = "consumption" // descuento por venta
	TransactionDeletion    TransactionType = "deletion"    // registro terminal al dar de baja un ítem
)

// Valid indica si el tipo es uno de los conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionRestock, TransactionAdjustment, TransactionConsumption, TransactionDeletion:
		return true
	}
	return false
}

// StockTransaction entrada inmutable del libro de stock.
// PreviousStock y NewStock son fotos tomadas al momento de escribir; NewStock = PreviousStock + QuantityDelta.
type StockTransaction struct {
	ID              string
	Type            TransactionType
	InventoryItemID string
	QuantityDelta   decimal.Decimal
	PreviousStock   decimal.Decimal
	NewStock        decimal.Decimal
	UnitCost        *decimal.Decimal // solo en restock
	PerformedBy     string
	Reason          string
	Notes           string
	Reference       string // producto o venta que originó un consumo
	IdempotencyKey  string
	CreatedAt       time.Time
}

// NewStockTransaction construye la entrada a partir del cambio aplicado, garantizando
// NewStock = PreviousStock + QuantityDelta.
func NewStockTransaction(id string, typ TransactionType, change StockChange, performedBy string, at time.Time) (*StockTransaction, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("tipo de movimiento desconocido %q", typ)
	}
	if change.New.IsNegative() {
		return nil, fmt.Errorf("stock resultante negativo para %s", change.ItemID)
	}
	return &StockTransaction{
		ID:              id,
		Type:            typ,
		InventoryItemID: change.ItemID,
		QuantityDelta:   change.Delta(),
		PreviousStock:   change.Previous,
		NewStock:        change.New,
		PerformedBy:     performedBy,
		CreatedAt:       at,
	}, nil
}

// Consistent verifica la ecuación del libro para esta entrada.
func (t *StockTransaction) Consistent() bool {
	return t.PreviousStock.Add(t.QuantityDelta).Equal(t.NewStock)
}

// TransactionFilter filtros para consultar el libro (auditoría).
type TransactionFilter struct {
	ItemID string
	Type   TransactionType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
