package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/recipe"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *inventory.ItemUseCase
	Mutator       *inventory.StockMutator
	LedgerUC      *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	CatalogUC     *recipe.CatalogUseCase
}

// Router registra las rutas de la API. La autenticación ocurre aguas arriba; el operador
// llega en el header X-Actor.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.Mutator, deps.LedgerUC, deps.Replenishment)
	invGroup.Post("/items", inventoryHandler.CreateItem)
	invGroup.Get("/items", inventoryHandler.ListItems)
	invGroup.Get("/items/:id", inventoryHandler.GetItem)
	invGroup.Delete("/items/:id", inventoryHandler.DeleteItem)
	invGroup.Post("/items/:id/restock", inventoryHandler.Restock)
	invGroup.Post("/items/:id/adjust", inventoryHandler.Adjust)
	invGroup.Get("/items/:id/audit", inventoryHandler.AuditItem)
	invGroup.Get("/transactions", inventoryHandler.ListTransactions)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Ventas
	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.Mutator)
	sales.Post("/consume", salesHandler.Consume)

	// Recetas
	recipes := api.Group("/recipes")
	recipeHandler := NewRecipeHandler(deps.CatalogUC)
	recipes.Post("/resolve", recipeHandler.Resolve)
	recipes.Post("/", recipeHandler.Upsert)
	recipes.Get("/", recipeHandler.List)
	recipes.Get("/:id", recipeHandler.Get)
	recipes.Delete("/:id", recipeHandler.Delete)
}
