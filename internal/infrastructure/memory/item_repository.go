package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de InventoryItemRepository.
type ItemRepo struct {
	s  *Store
	tx *state
}

func (r *ItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	return r.s.view(r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.s.view(r.tx, func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) List(_ context.Context, filter entity.ItemFilter) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	err := r.s.view(r.tx, func(st *state) error {
		var ids map[string]struct{}
		if len(filter.IDs) > 0 {
			ids = make(map[string]struct{}, len(filter.IDs))
			for _, id := range filter.IDs {
				ids[id] = struct{}{}
			}
		}
		for _, it := range st.items {
			if it.IsDeleted() && !filter.IncludeDeleted {
				continue
			}
			if filter.Category != "" && it.Category != filter.Category {
				continue
			}
			if ids != nil {
				if _, ok := ids[it.ID]; !ok {
					continue
				}
			}
			out = append(out, &it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return window(out, filter.Limit, filter.Offset), nil
}

// LockForUpdate en memoria la unidad de trabajo ya es exclusiva; solo lee.
func (r *ItemRepo) LockForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := r.GetByID(ctx, id)
	if err != nil || it == nil || it.IsDeleted() {
		return nil, err
	}
	return it, nil
}

func (r *ItemRepo) ApplyDelta(_ context.Context, id string, delta decimal.Decimal, restockedAt *time.Time) (entity.StockChange, error) {
	var change entity.StockChange
	err := r.s.view(r.tx, func(st *state) error {
		it, ok := st.items[id]
		if !ok || it.IsDeleted() {
			return domain.ErrNotFound
		}
		next := it.CurrentStock.Add(delta)
		if next.IsNegative() {
			return domain.ErrInvalidState
		}
		change = entity.StockChange{ItemID: id, Previous: it.CurrentStock, New: next}
		it.CurrentStock = next
		it.UpdatedAt = time.Now().UTC()
		if restockedAt != nil {
			at := *restockedAt
			it.LastRestockedAt = &at
		}
		st.items[id] = it
		return nil
	})
	return change, err
}

func (r *ItemRepo) UpdateAverageCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.s.view(r.tx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		it.AverageCost = cost
		st.items[id] = it
		return nil
	})
}

func (r *ItemRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	return r.s.view(r.tx, func(st *state) error {
		it, ok := st.items[id]
		if !ok || it.IsDeleted() {
			return domain.ErrNotFound
		}
		it.DeletedAt = &at
		it.UpdatedAt = at
		st.items[id] = it
		return nil
	})
}

func window[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return []T{}
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
