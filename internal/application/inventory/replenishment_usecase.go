package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de insumos.
// Es un reporte de lectura basado en Classify; no bloquea ninguna escritura.
type ReplenishmentUseCase struct {
	itemRepo repository.InventoryItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.InventoryItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

var idealFactor = decimal.NewFromFloat(1.5)

// GenerateReplenishmentList devuelve los ítems en bajo stock o agotados con la cantidad
// sugerida de pedido, ordenados por déficit relativo (agotados primero).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, category string) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.itemRepo.List(ctx, entity.ItemFilter{Category: category})
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, item := range items {
		status := domaininv.Classify(item.CurrentStock, item.ReorderLevel)
		if status == domaininv.StatusInStock {
			continue
		}
		idealStock := item.ReorderLevel.Mul(idealFactor)
		suggestedQty := idealStock.Sub(item.CurrentStock)
		if suggestedQty.LessThan(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ID,
			ItemName:           item.Name,
			Unit:               item.Unit,
			Supplier:           item.Supplier,
			Status:             string(status),
			CurrentStock:       item.CurrentStock,
			ReorderLevel:       item.ReorderLevel,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			AverageCost:        item.AverageCost,
			EstimatedOrderCost: suggestedQty.Mul(item.AverageCost),
		})
	}

	// Ordenar: mayor déficit relativo (1 - stock/reorden), luego mayor cantidad sugerida, luego nombre.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra, rb := deficitRatio(a), deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		if !a.SuggestedOrderQty.Equal(b.SuggestedOrderQty) {
			return a.SuggestedOrderQty.GreaterThan(b.SuggestedOrderQty)
		}
		return a.ItemName < b.ItemName
	})

	// Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func deficitRatio(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if !s.ReorderLevel.IsPositive() {
		// Agotado sin nivel de reorden configurado.
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Sub(s.CurrentStock.DivRound(s.ReorderLevel, 4))
}
