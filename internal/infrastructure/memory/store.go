// Package memory implementa los puertos de persistencia en memoria. Cada unidad de trabajo
// de TxRunner trabaja sobre una copia del estado que se publica en el Commit; un error la descarta.
// Las unidades de trabajo se serializan con un único mutex.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	items   map[string]entity.InventoryItem
	ledger  []entity.StockTransaction // orden de inserción = orden cronológico
	recipes map[string]entity.Recipe
}

func newState() *state {
	return &state{
		items:   make(map[string]entity.InventoryItem),
		recipes: make(map[string]entity.Recipe),
	}
}

func (s *state) clone() *state {
	return &state{
		items:   maps.Clone(s.items),
		ledger:  slices.Clone(s.ledger),
		recipes: maps.Clone(s.recipes),
	}
}

// Store estado compartido de los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Ledger repositorio del libro fuera de transacción.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

// Recipes repositorio de recetas.
func (s *Store) Recipes() *RecipeRepo { return &RecipeRepo{s: s} }

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	ledgerRepo repository.StockTransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&ItemRepo{s: s, tx: work}, &LedgerRepo{s: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// view ejecuta fn con el estado de la tx, o con el estado publicado bajo el mutex.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}
