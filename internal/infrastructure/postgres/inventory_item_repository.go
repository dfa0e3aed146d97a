package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, name, category, unit, current_stock, reorder_level, average_cost,
	supplier, last_restocked_at, created_at, updated_at, deleted_at`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Unit, &it.CurrentStock, &it.ReorderLevel, &it.AverageCost,
		&it.Supplier, &it.LastRestockedAt, &it.CreatedAt, &it.UpdatedAt, &it.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta un ítem. El stock inicial lo registra StockMutator con un restock.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, category, unit, current_stock, reorder_level, average_cost,
			supplier, last_restocked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Unit, item.CurrentStock, item.ReorderLevel, item.AverageCost,
		item.Supplier, item.LastRestockedAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return mapError("create inventory item", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID (incluye dados de baja).
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get inventory item", err)
	}
	return it, nil
}

// List devuelve ítems ordenados por nombre.
func (r *InventoryItemRepo) List(ctx context.Context, filter entity.ItemFilter) ([]*entity.InventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if !filter.IncludeDeleted {
		where = append(where, "deleted_at IS NULL")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"
	query, args = withWindow(query, args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list inventory items", err)
	}
	defer rows.Close()

	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// LockForUpdate bloquea la fila del ítem activo (SELECT FOR UPDATE).
func (r *InventoryItemRepo) LockForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("lock inventory item", err)
	}
	return it, nil
}

// ApplyDelta suma delta al stock en una única sentencia condicional. Si no afecta filas,
// distingue entre ítem inexistente y stock insuficiente.
func (r *InventoryItemRepo) ApplyDelta(ctx context.Context, id string, delta decimal.Decimal, restockedAt *time.Time) (entity.StockChange, error) {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock + $2,
			last_restocked_at = COALESCE($3, last_restocked_at),
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL AND current_stock + $2 >= 0
		RETURNING current_stock - $2, current_stock`
	change := entity.StockChange{ItemID: id}
	err := r.q.QueryRow(ctx, query, id, delta, restockedAt).Scan(&change.Previous, &change.New)
	if err == nil {
		return change, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return entity.StockChange{}, mapError("apply stock delta", err)
	}

	var exists bool
	err = r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return entity.StockChange{}, mapError("apply stock delta", err)
	}
	if !exists {
		return entity.StockChange{}, domain.ErrNotFound
	}
	return entity.StockChange{}, domain.ErrInvalidState
}

// UpdateAverageCost guarda el costo promedio ponderado.
func (r *InventoryItemRepo) UpdateAverageCost(ctx context.Context, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_items SET average_cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return mapError("update average cost", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el ítem como dado de baja.
func (r *InventoryItemRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return mapError("soft delete inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func withWindow(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
