package inventory

import (
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
)

// ToItemResponse convierte el ítem al DTO con su clasificación de stock.
func ToItemResponse(item *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Category:        item.Category,
		Unit:            item.Unit,
		CurrentStock:    item.CurrentStock,
		ReorderLevel:    item.ReorderLevel,
		AverageCost:     item.AverageCost,
		Supplier:        item.Supplier,
		Status:          string(domaininv.Classify(item.CurrentStock, item.ReorderLevel)),
		LastRestockedAt: item.LastRestockedAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// ToTransactionResponse convierte una entrada del libro al DTO.
func ToTransactionResponse(tx *entity.StockTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              tx.ID,
		Type:            string(tx.Type),
		InventoryItemID: tx.InventoryItemID,
		QuantityDelta:   tx.QuantityDelta,
		PreviousStock:   tx.PreviousStock,
		NewStock:        tx.NewStock,
		UnitCost:        tx.UnitCost,
		PerformedBy:     tx.PerformedBy,
		Reason:          tx.Reason,
		Notes:           tx.Notes,
		Reference:       tx.Reference,
		CreatedAt:       tx.CreatedAt,
	}
}

// ToTransactionResponses convierte una lista de entradas.
func ToTransactionResponses(txs []*entity.StockTransaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out
}

// ToConsumeResponse convierte el resultado de Consume.
func ToConsumeResponse(res *ConsumeResult) dto.ConsumeResponse {
	out := dto.ConsumeResponse{
		Source:       string(res.Resolution.Source),
		Replayed:     res.Replayed,
		Transactions: ToTransactionResponses(res.Transactions),
	}
	if res.Resolution.Recipe != nil {
		out.RecipeID = res.Resolution.Recipe.ID
	}
	return out
}
