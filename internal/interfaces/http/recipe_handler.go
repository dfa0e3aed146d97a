package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/recipe"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// RecipeHandler catálogo de recetas.
type RecipeHandler struct {
	catalog *recipe.CatalogUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(catalog *recipe.CatalogUseCase) *RecipeHandler {
	return &RecipeHandler{catalog: catalog}
}

// Upsert godoc
// @Summary      Crear o reemplazar receta
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertRecipeRequest  true  "Receta; con id reemplaza la existente"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recipes [post]
func (h *RecipeHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertRecipeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	r, err := h.catalog.UpsertRecipe(c.Context(), recipe.FromUpsertRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe.ToRecipeResponse(r))
}

// List godoc
// @Summary      Listar recetas
// @Tags         recipes
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Success      200  {array}  dto.RecipeResponse
// @Router       /api/recipes [get]
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	list, err := h.catalog.ListRecipes(c.Context(), c.Query("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RecipeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, recipe.ToRecipeResponse(r))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener receta
// @Tags         recipes
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [get]
func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	r, err := h.catalog.GetRecipe(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe.ToRecipeResponse(r))
}

// Delete godoc
// @Summary      Eliminar receta
// @Tags         recipes
// @Param        id   path  string  true  "ID de la receta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.DeleteRecipe(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Resolve godoc
// @Summary      Resolver receta efectiva
// @Description  Prioridad: product_override > variant_specific > base. Sin receta devuelve source=none.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveRecipeRequest  true  "product_id y variantes elegidas"
// @Success      200  {object}  dto.ResolveRecipeResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recipes/resolve [post]
func (h *RecipeHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveRecipeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.catalog.ResolveRecipe(c.Context(), in.ProductID, entity.VariantCombination(in.Variants))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe.ToResolveResponse(res))
}
