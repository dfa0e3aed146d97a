package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// StockTransactionRepository puerto del libro de stock (solo inserción).
type StockTransactionRepository interface {
	// Append persiste una entrada. Devuelve domain.ErrDuplicate si la clave de idempotencia
	// ya existe para ese ítem.
	Append(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// List devuelve las entradas más recientes primero.
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.StockTransaction, error)
	// ListByItemChronological devuelve todas las entradas de un ítem, la más antigua primero.
	ListByItemChronological(ctx context.Context, itemID string) ([]*entity.StockTransaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) ([]*entity.StockTransaction, error)
}
