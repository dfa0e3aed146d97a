package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// StockMutator es el único escritor de stock. Cada operación es una unidad de trabajo:
// bloqueo de fila, actualización condicional del stock y alta en el libro, con Commit o Rollback.
type StockMutator struct {
	txRunner   TxRunner
	ledgerRepo repository.StockTransactionRepository
	resolver   RecipeResolver
	log        *logger.Logger
}

// NewStockMutator construye el mutador. ledgerRepo (fuera de tx) se usa para reproducir
// respuestas de claves de idempotencia ya registradas.
func NewStockMutator(
	txRunner TxRunner,
	ledgerRepo repository.StockTransactionRepository,
	resolver RecipeResolver,
	log *logger.Logger,
) *StockMutator {
	if log == nil {
		log = logger.NewNop()
	}
	return &StockMutator{
		txRunner:   txRunner,
		ledgerRepo: ledgerRepo,
		resolver:   resolver,
		log:        log.Named("stock_mutator"),
	}
}

// RestockInput entrada de Restock. UnitCost es opcional.
type RestockInput struct {
	ItemID         string
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal
	Notes          string
	PerformedBy    string
	IdempotencyKey string
}

// AdjustInput entrada de Adjust: fija el stock a un valor absoluto.
type AdjustInput struct {
	ItemID         string
	NewStock       decimal.Decimal
	Reason         string // damaged, lost, count_error...
	Notes          string
	PerformedBy    string
	IdempotencyKey string
}

// ConsumeInput entrada de Consume para una línea de venta.
type ConsumeInput struct {
	ProductID      string
	Variants       entity.VariantCombination
	Units          decimal.Decimal
	PerformedBy    string
	Reference      string // id de la venta u orden
	IdempotencyKey string
}

// ConsumeResult receta aplicada y un movimiento por ítem afectado.
type ConsumeResult struct {
	Resolution   domaininv.Resolution
	Transactions []*entity.StockTransaction
	Replayed     bool
}

// RegisterItem da de alta un ítem. Si initialStock > 0 se registra como restock en la misma
// transacción para que el libro reproduzca el stock desde cero.
func (m *StockMutator) RegisterItem(ctx context.Context, item *entity.InventoryItem, initialStock decimal.Decimal, performedBy string) (*entity.StockTransaction, error) {
	if item == nil || item.Name == "" || item.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if initialStock.IsNegative() || item.ReorderLevel.IsNegative() {
		return nil, fmt.Errorf("%w: stock inicial y nivel de reorden deben ser >= 0", domain.ErrInvalidQuantity)
	}
	now := time.Now().UTC()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CurrentStock = decimal.Zero
	item.CreatedAt = now
	item.UpdatedAt = now

	var out *entity.StockTransaction
	err := m.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, ledgerRepo repository.StockTransactionRepository) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if !initialStock.IsPositive() {
			return nil
		}
		change, err := itemRepo.ApplyDelta(ctx, item.ID, initialStock, &now)
		if err != nil {
			return err
		}
		tx, err := entity.NewStockTransaction(uuid.New().String(), entity.TransactionRestock, change, performedBy, now)
		if err != nil {
			return err
		}
		tx.Notes = "stock inicial"
		if err := ledgerRepo.Append(ctx, tx); err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	item.CurrentStock = initialStock
	if out != nil {
		item.LastRestockedAt = &now
		m.logCommitted(out)
	}
	return out, nil
}

// Restock suma quantity (> 0) al stock; si se informa UnitCost recalcula el costo promedio ponderado.
func (m *StockMutator) Restock(ctx context.Context, in RestockInput) (*entity.StockTransaction, error) {
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad a reponer debe ser > 0", domain.ErrInvalidQuantity)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidQuantity)
	}
	if prev, err := m.replay(ctx, in.IdempotencyKey, entity.TransactionRestock, in.ItemID); err != nil || prev != nil {
		return first(prev), err
	}

	now := time.Now().UTC()
	var out *entity.StockTransaction
	err := m.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, ledgerRepo repository.StockTransactionRepository) error {
		item, err := itemRepo.LockForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ItemNotFound(in.ItemID)
		}
		change, err := itemRepo.ApplyDelta(ctx, item.ID, in.Quantity, &now)
		if err != nil {
			return stockErr(err, item, in.Quantity.Neg())
		}
		if in.UnitCost != nil {
			cost := domaininv.WeightedAverageCost(change.Previous, item.AverageCost, in.Quantity, *in.UnitCost)
			if err := itemRepo.UpdateAverageCost(ctx, item.ID, cost); err != nil {
				return err
			}
		}
		tx, err := entity.NewStockTransaction(uuid.New().String(), entity.TransactionRestock, change, in.PerformedBy, now)
		if err != nil {
			return err
		}
		tx.UnitCost = in.UnitCost
		tx.Notes = in.Notes
		tx.IdempotencyKey = in.IdempotencyKey
		if err := ledgerRepo.Append(ctx, tx); err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		prev, rerr := m.replayAfterConflict(ctx, err, in.IdempotencyKey, entity.TransactionRestock, in.ItemID)
		if rerr != nil {
			return nil, rerr
		}
		return first(prev), nil
	}
	m.logCommitted(out)
	return out, nil
}

// Adjust fija el stock en newStock (>= 0). Si newStock es igual al actual no escribe nada
// y devuelve nil, nil.
func (m *StockMutator) Adjust(ctx context.Context, in AdjustInput) (*entity.StockTransaction, error) {
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.NewStock.IsNegative() {
		return nil, fmt.Errorf("%w: el nuevo stock no puede ser negativo", domain.ErrInvalidQuantity)
	}
	if prev, err := m.replay(ctx, in.IdempotencyKey, entity.TransactionAdjustment, in.ItemID); err != nil || prev != nil {
		return first(prev), err
	}

	now := time.Now().UTC()
	var out *entity.StockTransaction
	err := m.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, ledgerRepo repository.StockTransactionRepository) error {
		item, err := itemRepo.LockForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ItemNotFound(in.ItemID)
		}
		delta := in.NewStock.Sub(item.CurrentStock)
		if delta.IsZero() {
			return nil
		}
		change, err := itemRepo.ApplyDelta(ctx, item.ID, delta, nil)
		if err != nil {
			return stockErr(err, item, delta)
		}
		tx, err := entity.NewStockTransaction(uuid.New().String(), entity.TransactionAdjustment, change, in.PerformedBy, now)
		if err != nil {
			return err
		}
		tx.Reason = in.Reason
		tx.Notes = in.Notes
		tx.IdempotencyKey = in.IdempotencyKey
		if err := ledgerRepo.Append(ctx, tx); err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		prev, rerr := m.replayAfterConflict(ctx, err, in.IdempotencyKey, entity.TransactionAdjustment, in.ItemID)
		if rerr != nil {
			return nil, rerr
		}
		return first(prev), nil
	}
	if out != nil {
		m.logCommitted(out)
	}
	return out, nil
}

// Consume descuenta los ingredientes de la receta resuelta para units unidades vendidas.
//
// Todo o nada: todas las deducciones van en una sola transacción; si algún ingrediente
// quedaría negativo la llamada falla con *domain.StockError y ningún stock cambia.
// Los requerimientos de un mismo ítem se agregan y los ítems se bloquean en orden de ID.
// Sin receta aplicable no hay consumo rastreable: devuelve una lista vacía sin error.
func (m *StockMutator) Consume(ctx context.Context, in ConsumeInput) (*ConsumeResult, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Units.IsPositive() {
		return nil, fmt.Errorf("%w: las unidades vendidas deben ser > 0", domain.ErrInvalidQuantity)
	}
	resolution, err := m.resolver.ResolveRecipe(ctx, in.ProductID, in.Variants)
	if err != nil {
		return nil, err
	}
	result := &ConsumeResult{Resolution: resolution, Transactions: []*entity.StockTransaction{}}
	if !resolution.Found() || len(resolution.Ingredients) == 0 {
		m.log.Debug().Str("product_id", in.ProductID).Str("variants", in.Variants.Key()).Msg("producto sin receta, sin consumo")
		return result, nil
	}
	if prev, err := m.replay(ctx, in.IdempotencyKey, entity.TransactionConsumption, ""); err != nil {
		return nil, err
	} else if prev != nil {
		result.Transactions = prev
		result.Replayed = true
		return result, nil
	}

	required, itemIDs := aggregateRequirements(resolution.Ingredients, in.Units)
	reference := in.Reference
	if reference == "" {
		reference = in.ProductID
	}
	now := time.Now().UTC()
	var txs []*entity.StockTransaction
	err = m.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, ledgerRepo repository.StockTransactionRepository) error {
		txs = txs[:0]
		for _, id := range itemIDs {
			qty := required[id]
			item, err := itemRepo.LockForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ItemNotFound(id)
			}
			if item.CurrentStock.LessThan(qty) {
				return &domain.StockError{ItemID: item.ID, ItemName: item.Name, Current: item.CurrentStock, Required: qty}
			}
			change, err := itemRepo.ApplyDelta(ctx, id, qty.Neg(), nil)
			if err != nil {
				return stockErr(err, item, qty.Neg())
			}
			tx, err := entity.NewStockTransaction(uuid.New().String(), entity.TransactionConsumption, change, in.PerformedBy, now)
			if err != nil {
				return err
			}
			tx.Reference = reference
			tx.Notes = fmt.Sprintf("venta de %s x%s (%s)", in.ProductID, in.Units.String(), resolution.Source)
			tx.IdempotencyKey = in.IdempotencyKey
			if err := ledgerRepo.Append(ctx, tx); err != nil {
				return err
			}
			txs = append(txs, tx)
		}
		return nil
	})
	if err != nil {
		prev, rerr := m.replayAfterConflict(ctx, err, in.IdempotencyKey, entity.TransactionConsumption, "")
		if rerr != nil {
			var se *domain.StockError
			if errors.As(rerr, &se) {
				m.log.Warn().Str("product_id", in.ProductID).Str("item_id", se.ItemID).
					Str("current", se.Current.String()).Str("required", se.Required.String()).
					Msg("consumo rechazado por stock insuficiente")
			}
			return nil, rerr
		}
		result.Transactions = prev
		result.Replayed = true
		return result, nil
	}
	for _, tx := range txs {
		m.logCommitted(tx)
	}
	result.Transactions = txs
	return result, nil
}

// DeleteItem registra un movimiento terminal con el stock al momento de la baja
// (delta = -stock, nuevo = 0) y marca el ítem como eliminado, en la misma transacción.
func (m *StockMutator) DeleteItem(ctx context.Context, itemID, reason, performedBy string) (*entity.StockTransaction, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	var out *entity.StockTransaction
	err := m.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, ledgerRepo repository.StockTransactionRepository) error {
		item, err := itemRepo.LockForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ItemNotFound(itemID)
		}
		change, err := itemRepo.ApplyDelta(ctx, item.ID, item.CurrentStock.Neg(), nil)
		if err != nil {
			return stockErr(err, item, item.CurrentStock.Neg())
		}
		tx, err := entity.NewStockTransaction(uuid.New().String(), entity.TransactionDeletion, change, performedBy, now)
		if err != nil {
			return err
		}
		tx.Reason = reason
		if err := ledgerRepo.Append(ctx, tx); err != nil {
			return err
		}
		if err := itemRepo.SoftDelete(ctx, item.ID, now); err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logCommitted(out)
	return out, nil
}

// replay devuelve los movimientos ya registrados con key (nil si no hay o key vacía).
// itemID vacío acepta cualquier ítem (consumo multi-ítem).
func (m *StockMutator) replay(ctx context.Context, key string, typ entity.TransactionType, itemID string) ([]*entity.StockTransaction, error) {
	if key == "" {
		return nil, nil
	}
	prev, err := m.ledgerRepo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(prev) == 0 {
		return nil, nil
	}
	for _, tx := range prev {
		if tx.Type != typ || (itemID != "" && tx.InventoryItemID != itemID) {
			return nil, fmt.Errorf("%w: la clave de idempotencia %q ya se usó en otra operación", domain.ErrDuplicate, key)
		}
	}
	m.log.Info().Str("idempotency_key", key).Int("transactions", len(prev)).Msg("operación repetida, se devuelve el resultado original")
	return prev, nil
}

// replayAfterConflict resuelve la carrera entre dos llamadas con la misma clave: la perdedora
// choca con el índice único, hace rollback y devuelve lo que escribió la ganadora.
func (m *StockMutator) replayAfterConflict(ctx context.Context, err error, key string, typ entity.TransactionType, itemID string) ([]*entity.StockTransaction, error) {
	if key == "" || !errors.Is(err, domain.ErrDuplicate) {
		return nil, err
	}
	prev, rerr := m.replay(ctx, key, typ, itemID)
	if rerr != nil {
		return nil, rerr
	}
	if prev == nil {
		return nil, err
	}
	return prev, nil
}

func (m *StockMutator) logCommitted(tx *entity.StockTransaction) {
	m.log.Info().
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("item_id", tx.InventoryItemID).
		Str("delta", tx.QuantityDelta.String()).
		Str("previous_stock", tx.PreviousStock.String()).
		Str("new_stock", tx.NewStock.String()).
		Str("performed_by", tx.PerformedBy).
		Msg("movimiento de stock registrado")
}

// aggregateRequirements suma quantity_needed * units por ítem y devuelve los IDs ordenados
// (orden de bloqueo estable entre transacciones concurrentes).
func aggregateRequirements(ingredients []entity.RecipeIngredient, units decimal.Decimal) (map[string]decimal.Decimal, []string) {
	required := make(map[string]decimal.Decimal, len(ingredients))
	for _, ing := range ingredients {
		required[ing.InventoryItemID] = required[ing.InventoryItemID].Add(ing.QuantityNeeded.Mul(units))
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return required, ids
}

// stockErr traduce los errores de ApplyDelta a errores de dominio con contexto del ítem.
func stockErr(err error, item *entity.InventoryItem, delta decimal.Decimal) error {
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		return &domain.StockError{ItemID: item.ID, ItemName: item.Name, Current: item.CurrentStock, Required: delta.Neg()}
	case errors.Is(err, domain.ErrNotFound):
		return domain.ItemNotFound(item.ID)
	}
	return err
}

func first(txs []*entity.StockTransaction) *entity.StockTransaction {
	if len(txs) == 0 {
		return nil
	}
	return txs[0]
}
