package memory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*LedgerRepo)(nil)

// LedgerRepo libro de stock en memoria; solo inserción.
type LedgerRepo struct {
	s  *Store
	tx *state
}

func (r *LedgerRepo) Append(_ context.Context, tx *entity.StockTransaction) error {
	return r.s.view(r.tx, func(st *state) error {
		for _, t := range st.ledger {
			if t.ID == tx.ID {
				return domain.ErrDuplicate
			}
			if tx.IdempotencyKey != "" && t.IdempotencyKey == tx.IdempotencyKey && t.InventoryItemID == tx.InventoryItemID {
				return domain.ErrDuplicate
			}
		}
		st.ledger = append(st.ledger, *tx)
		return nil
	})
}

func (r *LedgerRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	err := r.s.view(r.tx, func(st *state) error {
		for _, t := range st.ledger {
			if t.ID == id {
				out = &t
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *LedgerRepo) List(_ context.Context, filter entity.TransactionFilter) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.s.view(r.tx, func(st *state) error {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			t := st.ledger[i]
			if filter.ItemID != "" && t.InventoryItemID != filter.ItemID {
				continue
			}
			if filter.Type != "" && t.Type != filter.Type {
				continue
			}
			if filter.From != nil && t.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && t.CreatedAt.After(*filter.To) {
				continue
			}
			out = append(out, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return window(out, filter.Limit, filter.Offset), nil
}

func (r *LedgerRepo) ListByItemChronological(_ context.Context, itemID string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.s.view(r.tx, func(st *state) error {
		for _, t := range st.ledger {
			if t.InventoryItemID == itemID {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

func (r *LedgerRepo) FindByIdempotencyKey(_ context.Context, key string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.s.view(r.tx, func(st *state) error {
		for _, t := range st.ledger {
			if key != "" && t.IdempotencyKey == key {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}
