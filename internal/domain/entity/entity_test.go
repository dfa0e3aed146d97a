package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

func TestVariantCombination_KeyOrdenaPorGrupo(t *testing.T) {
	c := entity.VariantCombination{"size": "large", "milk": "oat"}
	assert.Equal(t, "milk=oat;size=large", c.Key())
	assert.Equal(t, "", entity.VariantCombination(nil).Key())
	assert.Equal(t, []string{"large", "oat"}, c.OptionIDs())
}

func TestVariantCombination_EqualWithin(t *testing.T) {
	sel := entity.VariantCombination{"size": "large", "milk": "oat"}
	assert.True(t, entity.VariantCombination{"milk": "oat", "size": "large"}.Equal(sel))
	assert.False(t, entity.VariantCombination{"milk": "oat"}.Equal(sel))

	assert.True(t, entity.VariantCombination{"milk": "oat"}.Within(sel))
	assert.False(t, entity.VariantCombination{"milk": "soy"}.Within(sel))
	assert.True(t, entity.VariantCombination{}.Within(sel))
}

func TestRecipe_KeyIncluyeAlcanceYProducto(t *testing.T) {
	a := entity.Recipe{Scope: entity.ScopeProductOverride, ProductID: "latte", VariantCombination: entity.VariantCombination{"size": "large"}}
	b := entity.Recipe{Scope: entity.ScopeVariantSpecific, ProductID: "latte", VariantCombination: entity.VariantCombination{"size": "large"}}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, "product_override|latte|size=large", a.Key())
}

func TestNewStockTransaction(t *testing.T) {
	change := entity.StockChange{ItemID: "flour", Previous: decimal.NewFromInt(15), New: decimal.NewFromInt(12)}
	at := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	tx, err := entity.NewStockTransaction("t1", entity.TransactionAdjustment, change, "ana", at)
	require.NoError(t, err)
	assert.True(t, tx.QuantityDelta.Equal(decimal.NewFromInt(-3)))
	assert.True(t, tx.Consistent())
	assert.Equal(t, "flour", tx.InventoryItemID)
	assert.Equal(t, at, tx.CreatedAt)

	_, err = entity.NewStockTransaction("t2", entity.TransactionType("transfer"), change, "ana", at)
	assert.Error(t, err)

	negative := entity.StockChange{ItemID: "flour", Previous: decimal.NewFromInt(1), New: decimal.NewFromInt(-1)}
	_, err = entity.NewStockTransaction("t3", entity.TransactionConsumption, negative, "ana", at)
	assert.Error(t, err)
}
