package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
)

// InventoryHandler maneja ítems de inventario, movimientos manuales y consultas del libro.
type InventoryHandler struct {
	items         *inventory.ItemUseCase
	mutator       *inventory.StockMutator
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	items *inventory.ItemUseCase,
	mutator *inventory.StockMutator,
	ledger *inventory.LedgerUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{items: items, mutator: mutator, ledger: ledger, replenishment: replenishment}
}

// CreateItem godoc
// @Summary      Crear ítem de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                  false  "Operador"
// @Param        body     body    dto.CreateItemRequest  true   "Datos del ítem; initial_stock se registra como restock"
// @Success      201  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Create(c.Context(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Listar ítems
// @Tags         inventory
// @Produce      json
// @Param        category  query  string  false  "Categoría"
// @Param        status    query  string  false  "in_stock, low_stock, out_of_stock"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	var in dto.ItemListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.items.List(c.Context(), in, page(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener ítem con su estado de stock
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.items.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Dar de baja un ítem
// @Description  Registra un movimiento terminal (stock a 0) y marca el ítem como eliminado.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id       path    string                 true   "ID del ítem"
// @Param        X-Actor  header  string                 false  "Operador"
// @Param        body     body    dto.DeleteItemRequest  false  "Motivo"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	var in dto.DeleteItemRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.items.Delete(c.Context(), c.Params("id"), in.Reason, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reponer stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id               path    string              true   "ID del ítem"
// @Param        X-Actor          header  string              false  "Operador"
// @Param        Idempotency-Key  header  string              false  "Clave de idempotencia"
// @Param        body             body    dto.RestockRequest  true   "quantity > 0, unit_cost opcional"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	tx, err := h.mutator.Restock(c.Context(), inventory.RestockInput{
		ItemID:         c.Params("id"),
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Notes:          in.Notes,
		PerformedBy:    actor(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToTransactionResponse(tx))
}

// Adjust godoc
// @Summary      Ajustar stock a un valor absoluto
// @Description  Si new_stock es igual al actual no se registra movimiento (204).
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id               path    string             true   "ID del ítem"
// @Param        X-Actor          header  string             false  "Operador"
// @Param        Idempotency-Key  header  string             false  "Clave de idempotencia"
// @Param        body             body    dto.AdjustRequest  true   "new_stock >= 0 y motivo"
// @Success      201  {object}  dto.TransactionResponse
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	tx, err := h.mutator.Adjust(c.Context(), inventory.AdjustInput{
		ItemID:         c.Params("id"),
		NewStock:       in.NewStock,
		Reason:         in.Reason,
		Notes:          in.Notes,
		PerformedBy:    actor(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	if tx == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToTransactionResponse(tx))
}

// AuditItem godoc
// @Summary      Auditar el libro de un ítem
// @Description  Reproduce los movimientos desde cero y compara con el stock vivo.
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/audit [get]
func (h *InventoryHandler) AuditItem(c *fiber.Ctx) error {
	out, err := h.ledger.AuditItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Produce      json
// @Param        item_id  query  string  false  "ID del ítem"
// @Param        type     query  string  false  "restock, adjustment, consumption, deletion"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var in dto.TransactionListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	p := page(c)
	list, err := h.ledger.ListTransactions(c.Context(), in, p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"transactions": list,
		"page":         dto.PageResponse{Limit: p.Limit, Offset: p.Offset},
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems en bajo stock o agotados con la cantidad sugerida de pedido.
// @Tags         inventory
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
