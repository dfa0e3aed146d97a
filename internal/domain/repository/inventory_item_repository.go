package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// InventoryItemRepository puerto de persistencia de ítems de inventario (InventoryStore).
// Las escrituras de stock solo las invoca StockMutator dentro de su unidad de trabajo.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	List(ctx context.Context, filter entity.ItemFilter) ([]*entity.InventoryItem, error)
	// LockForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	// Devuelve nil, nil si no existe o está dado de baja.
	LockForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// ApplyDelta suma delta al stock como una única sentencia condicional.
	// Devuelve domain.ErrNotFound si el ítem no existe y domain.ErrInvalidState si quedaría negativo.
	// restockedAt no nulo actualiza last_restocked_at.
	ApplyDelta(ctx context.Context, id string, delta decimal.Decimal, restockedAt *time.Time) (entity.StockChange, error)
	UpdateAverageCost(ctx context.Context, id string, cost decimal.Decimal) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
