package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// SalesHandler recibe las líneas de venta del POS y descuenta ingredientes.
type SalesHandler struct {
	mutator *inventory.StockMutator
}

// NewSalesHandler construye el handler.
func NewSalesHandler(mutator *inventory.StockMutator) *SalesHandler {
	return &SalesHandler{mutator: mutator}
}

// Consume godoc
// @Summary      Consumir ingredientes por una venta
// @Description  Resuelve la receta (override, variante, base) y descuenta todo o nada.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-Actor          header  string              false  "Operador"
// @Param        Idempotency-Key  header  string              false  "Clave de idempotencia"
// @Param        body             body    dto.ConsumeRequest  true   "product_id, variants, units"
// @Success      201  {object}  dto.ConsumeResponse
// @Success      200  {object}  dto.ConsumeResponse  "repetición idempotente o producto sin receta"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/consume [post]
func (h *SalesHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.mutator.Consume(c.Context(), inventory.ConsumeInput{
		ProductID:      in.ProductID,
		Variants:       entity.VariantCombination(in.Variants),
		Units:          in.Units,
		PerformedBy:    actor(c),
		Reference:      in.Reference,
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusCreated
	if res.Replayed || len(res.Transactions) == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(inventory.ToConsumeResponse(res))
}
