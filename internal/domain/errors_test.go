package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-inventario/internal/domain"
)

func TestStockError(t *testing.T) {
	err := &domain.StockError{ItemID: "i1", ItemName: "flour", Current: decimal.NewFromInt(12), Required: decimal.NewFromInt(20)}
	wrapped := fmt.Errorf("consume: %w", err)

	assert.ErrorIs(t, wrapped, domain.ErrInsufficientStock)
	var se *domain.StockError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "el stock no puede quedar por debajo de 0 para el ítem flour (actual 12, requerido 20)", err.Error())
}

func TestNotFoundError(t *testing.T) {
	assert.ErrorIs(t, domain.ItemNotFound("x"), domain.ErrNotFound)
	assert.ErrorIs(t, domain.RecipeNotFound("r"), domain.ErrNotFound)
	assert.Equal(t, "recipe r no encontrado", domain.RecipeNotFound("r").Error())
}
