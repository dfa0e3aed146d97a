package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerUseCase lectura y auditoría del libro de stock. Solo lectura.
type LedgerUseCase struct {
	ledgerRepo repository.StockTransactionRepository
	itemRepo   repository.InventoryItemRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(ledgerRepo repository.StockTransactionRepository, itemRepo repository.InventoryItemRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, itemRepo: itemRepo}
}

// ListTransactions devuelve el historial (más reciente primero) filtrado por ítem, tipo y rango de fechas.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, in dto.TransactionListRequest, page dto.PageRequest) ([]dto.TransactionResponse, error) {
	page = page.Normalize()
	filter := entity.TransactionFilter{
		ItemID: in.ItemID,
		Type:   entity.TransactionType(in.Type),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var err error
	if filter.From, err = parseTime(in.From); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if filter.To, err = parseTime(in.To); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidInput
	}
	txs, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// AuditItem reproduce el libro del ítem desde cero y lo compara con el stock vivo.
// Aplica también a ítems dados de baja (su libro termina en 0).
func (uc *LedgerUseCase) AuditItem(ctx context.Context, itemID string) (*dto.AuditResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ItemNotFound(itemID)
	}
	txs, err := uc.ledgerRepo.ListByItemChronological(ctx, itemID)
	if err != nil {
		return nil, err
	}
	replayed, issues := domaininv.Replay(decimal.Zero, txs)
	out := &dto.AuditResponse{
		ItemID:           item.ID,
		CurrentStock:     item.CurrentStock,
		ReplayedStock:    replayed,
		TransactionCount: len(txs),
	}
	for _, is := range issues {
		out.Issues = append(out.Issues, dto.AuditIssue{TransactionID: is.TransactionID, Message: is.Message})
	}
	if !replayed.Equal(item.CurrentStock) {
		out.Issues = append(out.Issues, dto.AuditIssue{
			Message: "el stock reproducido " + replayed.String() + " difiere del stock vivo " + item.CurrentStock.String(),
		})
	}
	out.Consistent = len(out.Issues) == 0
	return out, nil
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
