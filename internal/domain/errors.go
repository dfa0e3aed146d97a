package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrDuplicateRecipe        = errors.New("ya existe una receta para ese producto y combinación")
	ErrAmbiguousRecipe        = errors.New("más de una receta de variante aplica a la selección")
	ErrUnitMismatch           = errors.New("la unidad del ingrediente no coincide con la del ítem")
	ErrConcurrentModification = errors.New("el recurso fue modificado concurrentemente")
	ErrInvalidState           = errors.New("estado inválido")
)

// StockError detalla qué ítem dejaría el stock negativo. errors.Is(err, ErrInsufficientStock) es true.
type StockError struct {
	ItemID   string
	ItemName string
	Current  decimal.Decimal
	Required decimal.Decimal
}

func (e *StockError) Error() string {
	name := e.ItemName
	if name == "" {
		name = e.ItemID
	}
	return fmt.Sprintf("el stock no puede quedar por debajo de 0 para el ítem %s (actual %s, requerido %s)",
		name, e.Current.String(), e.Required.String())
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError indica qué recurso no existe. errors.Is(err, ErrNotFound) es true.
type NotFoundError struct {
	Kind string // inventory_item, recipe
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ItemNotFound atajo para ítems de inventario.
func ItemNotFound(id string) error { return &NotFoundError{Kind: "inventory_item", ID: id} }

// RecipeNotFound atajo para recetas.
func RecipeNotFound(id string) error { return &NotFoundError{Kind: "recipe", ID: id} }
