package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const transactionColumns = `id, type, inventory_item_id, quantity_delta, previous_stock, new_stock,
	unit_cost, performed_by, reason, notes, reference, COALESCE(idempotency_key, ''), created_at`

func scanTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var (
		t   entity.StockTransaction
		typ string
	)
	err := row.Scan(
		&t.ID, &typ, &t.InventoryItemID, &t.QuantityDelta, &t.PreviousStock, &t.NewStock,
		&t.UnitCost, &t.PerformedBy, &t.Reason, &t.Notes, &t.Reference, &t.IdempotencyKey, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(typ)
	return &t, nil
}

func (r *StockTransactionRepo) collect(ctx context.Context, op, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Append inserta la entrada. Una clave de idempotencia repetida para el ítem devuelve domain.ErrDuplicate.
func (r *StockTransactionRepo) Append(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, type, inventory_item_id, quantity_delta, previous_stock, new_stock,
			unit_cost, performed_by, reason, notes, reference, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13)`
	_, err := r.q.Exec(ctx, query,
		t.ID, string(t.Type), t.InventoryItemID, t.QuantityDelta, t.PreviousStock, t.NewStock,
		t.UnitCost, t.PerformedBy, t.Reason, t.Notes, t.Reference, t.IdempotencyKey, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return mapError("append stock transaction", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID; nil si no existe.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE id = $1`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get stock transaction", err)
	}
	return t, nil
}

// List devuelve entradas filtradas, la más reciente primero.
func (r *StockTransactionRepo) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.StockTransaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		where = append(where, fmt.Sprintf("inventory_item_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM stock_transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	query, args = withWindow(query, args, filter.Limit, filter.Offset)
	return r.collect(ctx, "list stock transactions", query, args...)
}

// ListByItemChronological devuelve el historial completo del ítem en orden de escritura.
func (r *StockTransactionRepo) ListByItemChronological(ctx context.Context, itemID string) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE inventory_item_id = $1 ORDER BY seq`
	return r.collect(ctx, "list item stock transactions", query, itemID)
}

// FindByIdempotencyKey entradas escritas con la clave, en orden de escritura.
func (r *StockTransactionRepo) FindByIdempotencyKey(ctx context.Context, key string) ([]*entity.StockTransaction, error) {
	if key == "" {
		return nil, nil
	}
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE idempotency_key = $1 ORDER BY seq`
	return r.collect(ctx, "find stock transactions by idempotency key", query, key)
}
