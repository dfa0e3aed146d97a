package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

func seed(t *testing.T, store *memory.Store, id, stock string) {
	t.Helper()
	require.NoError(t, store.Items().Create(context.Background(), &entity.InventoryItem{
		ID: id, Name: id, Unit: "g", CurrentStock: decimal.RequireFromString(stock),
	}))
}

// Un error en la unidad de trabajo descarta stock y libro.
func TestStore_RunDescartaEnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "coffee", "10")

	boom := errors.New("boom")
	err := store.Run(ctx, func(items repository.InventoryItemRepository, ledger repository.StockTransactionRepository) error {
		change, err := items.ApplyDelta(ctx, "coffee", decimal.NewFromInt(-4), nil)
		require.NoError(t, err)
		tx, err := entity.NewStockTransaction("t1", entity.TransactionConsumption, change, "ana", time.Now())
		require.NoError(t, err)
		require.NoError(t, ledger.Append(ctx, tx))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	it, err := store.Items().GetByID(ctx, "coffee")
	require.NoError(t, err)
	assert.True(t, it.CurrentStock.Equal(decimal.NewFromInt(10)))
	list, err := store.Ledger().ListByItemChronological(ctx, "coffee")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestItemRepo_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "milk", "5")

	_, err := store.Items().ApplyDelta(ctx, "milk", decimal.NewFromInt(-6), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = store.Items().ApplyDelta(ctx, "missing", decimal.NewFromInt(1), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	at := time.Now().UTC()
	change, err := store.Items().ApplyDelta(ctx, "milk", decimal.NewFromInt(3), &at)
	require.NoError(t, err)
	assert.True(t, change.Previous.Equal(decimal.NewFromInt(5)))
	assert.True(t, change.New.Equal(decimal.NewFromInt(8)))

	it, err := store.Items().GetByID(ctx, "milk")
	require.NoError(t, err)
	require.NotNil(t, it.LastRestockedAt)
	assert.Equal(t, at, *it.LastRestockedAt)
}

func TestLedgerRepo_IdempotencyKeyUnicaPorItem(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "sugar", "0")

	change := entity.StockChange{ItemID: "sugar", Previous: decimal.Zero, New: decimal.NewFromInt(2)}
	first, err := entity.NewStockTransaction("t1", entity.TransactionRestock, change, "ana", time.Now())
	require.NoError(t, err)
	first.IdempotencyKey = "po-1"
	require.NoError(t, store.Ledger().Append(ctx, first))

	dup, err := entity.NewStockTransaction("t2", entity.TransactionRestock, change, "ana", time.Now())
	require.NoError(t, err)
	dup.IdempotencyKey = "po-1"
	assert.ErrorIs(t, store.Ledger().Append(ctx, dup), domain.ErrDuplicate)

	found, err := store.Ledger().FindByIdempotencyKey(ctx, "po-1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "t1", found[0].ID)

	found, err = store.Ledger().FindByIdempotencyKey(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}
