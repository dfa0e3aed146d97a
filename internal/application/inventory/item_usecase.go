package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ItemUseCase casos de uso de operador sobre ítems. El stock solo cambia vía StockMutator.
type ItemUseCase struct {
	repo    repository.InventoryItemRepository
	mutator *StockMutator
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.InventoryItemRepository, mutator *StockMutator) *ItemUseCase {
	return &ItemUseCase{repo: repo, mutator: mutator}
}

// Create da de alta un ítem con su stock inicial.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, performedBy string) (*dto.ItemResponse, error) {
	item := &entity.InventoryItem{
		Name:         in.Name,
		Category:     in.Category,
		Unit:         in.Unit,
		ReorderLevel: in.ReorderLevel,
		Supplier:     in.Supplier,
	}
	if _, err := uc.mutator.RegisterItem(ctx, item, in.InitialStock, performedBy); err != nil {
		return nil, err
	}
	out := ToItemResponse(item)
	return &out, nil
}

// GetByID obtiene un ítem activo. domain.ErrNotFound si no existe o fue dado de baja.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.IsDeleted() {
		return nil, domain.ItemNotFound(id)
	}
	out := ToItemResponse(item)
	return &out, nil
}

// List lista ítems activos; status (opcional) filtra por clasificación de stock.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemListRequest, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page = page.Normalize()
	var status domaininv.StockStatus
	if in.Status != "" {
		s, ok := domaininv.ParseStockStatus(in.Status)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		status = s
	}
	filter := entity.ItemFilter{Category: in.Category, Limit: page.Limit, Offset: page.Offset}
	if status != "" {
		// La clasificación es de lectura: se filtra en memoria sobre el listado completo.
		filter.Limit, filter.Offset = 0, 0
	}
	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		r := ToItemResponse(item)
		if status != "" && r.Status != string(status) {
			continue
		}
		out = append(out, r)
	}
	total := len(out)
	if status != "" {
		out = paginate(out, page.Limit, page.Offset)
	}
	return &dto.ItemListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete da de baja el ítem dejando un movimiento terminal en el libro.
func (uc *ItemUseCase) Delete(ctx context.Context, id, reason, performedBy string) (*dto.TransactionResponse, error) {
	tx, err := uc.mutator.DeleteItem(ctx, id, reason, performedBy)
	if err != nil {
		return nil, err
	}
	out := ToTransactionResponse(tx)
	return &out, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
