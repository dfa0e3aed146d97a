package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Classify
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	cases := []struct {
		current, reorder string
		want             inventory.StockStatus
	}{
		{"0", "5", inventory.StatusOutOfStock},
		{"0.01", "5", inventory.StatusLowStock},
		{"5", "5", inventory.StatusLowStock},
		{"5.01", "5", inventory.StatusInStock},
		{"3", "0", inventory.StatusInStock},
	}
	for _, tc := range cases {
		got := inventory.Classify(d(tc.current), d(tc.reorder))
		assert.Equal(t, tc.want, got, "current=%s reorder=%s", tc.current, tc.reorder)
	}
}

func TestParseStockStatus(t *testing.T) {
	s, ok := inventory.ParseStockStatus("low_stock")
	assert.True(t, ok)
	assert.Equal(t, inventory.StatusLowStock, s)

	_, ok = inventory.ParseStockStatus("agotado")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

// 10 kg a 2.00 + 5 kg a 3.20 -> (20 + 16) / 15 = 2.40
func TestWeightedAverageCost(t *testing.T) {
	got := inventory.WeightedAverageCost(d("10"), d("2"), d("5"), d("3.2"))
	assert.True(t, got.Equal(d("2.4")), "got %s", got)
}

func TestWeightedAverageCost_SinStockPrevio(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, d("4"), d("1.75"))
	assert.True(t, got.Equal(d("1.75")))

	got = inventory.WeightedAverageCost(decimal.Zero, d("9"), decimal.Zero, d("1.75"))
	assert.True(t, got.Equal(d("1.75")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de recetas
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateRecipe_CamposPorAlcance(t *testing.T) {
	large := entity.VariantCombination{"size": "large"}
	coffee := ing("coffee", "15", "g")

	require.NoError(t, inventory.ValidateRecipe(recipeOf("b", entity.ScopeBase, "latte", nil, coffee)))
	require.NoError(t, inventory.ValidateRecipe(recipeOf("v", entity.ScopeVariantSpecific, "", large, coffee)))
	require.NoError(t, inventory.ValidateRecipe(recipeOf("o", entity.ScopeProductOverride, "latte", large, coffee)))

	invalid := []*entity.Recipe{
		nil,
		recipeOf("b", entity.ScopeBase, "", nil, coffee),
		recipeOf("b", entity.ScopeBase, "latte", large, coffee),
		recipeOf("v", entity.ScopeVariantSpecific, "latte", nil, coffee),
		recipeOf("o", entity.ScopeProductOverride, "", large, coffee),
		recipeOf("o", entity.ScopeProductOverride, "latte", nil, coffee),
		recipeOf("x", entity.RecipeScope("combo"), "latte", nil, coffee),
		recipeOf("v", entity.ScopeVariantSpecific, "", entity.VariantCombination{"size": ""}, coffee),
		recipeOf("b", entity.ScopeBase, "latte", nil),
		recipeOf("b", entity.ScopeBase, "latte", nil, coffee, coffee),
	}
	for i, r := range invalid {
		err := inventory.ValidateRecipe(r)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}
}

func TestValidateRecipe_CantidadNoPositiva(t *testing.T) {
	for _, qty := range []string{"0", "-1"} {
		r := recipeOf("b", entity.ScopeBase, "latte", nil, ing("coffee", qty, "g"))
		assert.ErrorIs(t, inventory.ValidateRecipe(r), domain.ErrInvalidQuantity)
	}
}

func TestUnitsMatch(t *testing.T) {
	assert.True(t, inventory.UnitsMatch("Kg", "kg"))
	assert.True(t, inventory.UnitsMatch("ML", "ml"))
	assert.False(t, inventory.UnitsMatch("g", "kg"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay del libro
// ──────────────────────────────────────────────────────────────────────────────

func tx(id, prev, delta, next string) *entity.StockTransaction {
	return &entity.StockTransaction{ID: id, PreviousStock: d(prev), QuantityDelta: d(delta), NewStock: d(next)}
}

// Harina: alta con 10, reposición de 5, ajuste a 12.
func TestReplay_Consistente(t *testing.T) {
	txs := []*entity.StockTransaction{
		tx("t1", "0", "10", "10"),
		tx("t2", "10", "5", "15"),
		tx("t3", "15", "-3", "12"),
	}
	got, issues := inventory.Replay(decimal.Zero, txs)
	assert.True(t, got.Equal(d("12")))
	assert.Empty(t, issues)
}

func TestReplay_DetectaHuecosYEcuacionRota(t *testing.T) {
	txs := []*entity.StockTransaction{
		tx("t1", "0", "10", "10"),
		tx("t2", "11", "5", "16"), // foto previa no coincide con el acumulado
		tx("t3", "15", "-3", "13"), // new != prev + delta
	}
	_, issues := inventory.Replay(decimal.Zero, txs)
	require.Len(t, issues, 2)
	assert.Equal(t, "t2", issues[0].TransactionID)
	assert.Equal(t, "t3", issues[1].TransactionID)
}
