package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// ReplayIssue una inconsistencia encontrada al reconstruir el libro.
type ReplayIssue struct {
	TransactionID string
	Message       string
}

// Replay reconstruye el stock desde initial aplicando las entradas en orden cronológico.
// Reporta cada entrada cuya foto PreviousStock no coincide con el acumulado o cuyo
// NewStock != PreviousStock + QuantityDelta.
func Replay(initial decimal.Decimal, txs []*entity.StockTransaction) (decimal.Decimal, []ReplayIssue) {
	running := initial
	var issues []ReplayIssue
	for _, t := range txs {
		if !t.PreviousStock.Equal(running) {
			issues = append(issues, ReplayIssue{
				TransactionID: t.ID,
				Message:       fmt.Sprintf("previous_stock %s, esperado %s", t.PreviousStock, running),
			})
		}
		if !t.Consistent() {
			issues = append(issues, ReplayIssue{
				TransactionID: t.ID,
				Message:       fmt.Sprintf("new_stock %s != %s + %s", t.NewStock, t.PreviousStock, t.QuantityDelta),
			})
		}
		running = running.Add(t.QuantityDelta)
	}
	return running, issues
}
