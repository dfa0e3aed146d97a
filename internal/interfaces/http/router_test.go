package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/recipe"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-inventario/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta el router completo sobre el store en memoria.
func buildTestApp() *fiber.App {
	store := memory.NewStore()
	catalog := recipe.NewCatalogUseCase(store.Recipes(), store.Items())
	mutator := inventory.NewStockMutator(store, store.Ledger(), catalog, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:        inventory.NewItemUseCase(store.Items(), mutator),
		Mutator:       mutator,
		LedgerUC:      inventory.NewLedgerUseCase(store.Ledger(), store.Items()),
		Replenishment: inventory.NewReplenishmentUseCase(store.Items()),
		CatalogUC:     catalog,
	})
	return app
}

// do envía la petición y devuelve status y cuerpo.
func do(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func createItem(t *testing.T, app *fiber.App, name, unit, initial, reorder string) dto.ItemResponse {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/inventory/items", map[string]any{
		"name": name, "unit": unit, "initial_stock": initial, "reorder_level": reorder,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[dto.ItemResponse](t, body)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Ítems y movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	status, body := do(t, buildTestApp(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCreateItem(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Harina", "kg", "10", "5")
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.CurrentStock.Equal(d("10")))
	assert.Equal(t, "in_stock", item.Status)

	status, body := do(t, app, http.MethodGet, "/api/inventory/items/"+item.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Harina", decode[dto.ItemResponse](t, body).Name)
}

func TestCreateItem_Validacion(t *testing.T) {
	app := buildTestApp()

	status, body := do(t, app, http.MethodPost, "/api/inventory/items", map[string]any{"name": "Harina"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	status, body = do(t, app, http.MethodPost, "/api/inventory/items", map[string]any{
		"name": "Harina", "unit": "kg", "initial_stock": "-1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUANTITY", decode[dto.ErrorResponse](t, body).Code)
}

func TestGetItem_NoExiste(t *testing.T) {
	status, body := do(t, buildTestApp(), http.MethodGet, "/api/inventory/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)
}

func TestRestockAndAdjust(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Harina", "kg", "10", "5")
	base := "/api/inventory/items/" + item.ID

	status, body := do(t, app, http.MethodPost, base+"/restock",
		map[string]any{"quantity": "5", "unit_cost": "3.2"}, apphttp.HeaderActor, "ana")
	require.Equal(t, http.StatusCreated, status, string(body))
	tx := decode[dto.TransactionResponse](t, body)
	assert.Equal(t, "restock", tx.Type)
	assert.Equal(t, "ana", tx.PerformedBy)
	assert.True(t, tx.NewStock.Equal(d("15")))

	status, body = do(t, app, http.MethodPost, base+"/adjust", map[string]any{"new_stock": "12", "reason": "waste"})
	require.Equal(t, http.StatusCreated, status, string(body))
	tx = decode[dto.TransactionResponse](t, body)
	assert.True(t, tx.QuantityDelta.Equal(d("-3")))
	assert.Equal(t, "anonymous", tx.PerformedBy)

	// Ajustar al mismo valor no registra movimiento.
	status, _ = do(t, app, http.MethodPost, base+"/adjust", map[string]any{"new_stock": "12", "reason": "count"})
	assert.Equal(t, http.StatusNoContent, status)

	status, body = do(t, app, http.MethodPost, base+"/restock", map[string]any{"quantity": "0"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUANTITY", decode[dto.ErrorResponse](t, body).Code)

	status, body = do(t, app, http.MethodGet, base+"/audit", nil)
	require.Equal(t, http.StatusOK, status)
	audit := decode[dto.AuditResponse](t, body)
	assert.True(t, audit.Consistent)
	assert.Equal(t, 3, audit.TransactionCount)

	status, body = do(t, app, http.MethodGet, "/api/inventory/transactions?item_id="+item.ID+"&type=restock", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[struct {
		Transactions []dto.TransactionResponse `json:"transactions"`
	}](t, body)
	assert.Len(t, list.Transactions, 2)
}

func TestRestock_Idempotente(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Azúcar", "kg", "0", "2")
	path := "/api/inventory/items/" + item.ID + "/restock"

	status, first := do(t, app, http.MethodPost, path, map[string]any{"quantity": "4"}, apphttp.HeaderIdempotencyKey, "po-1")
	require.Equal(t, http.StatusCreated, status, string(first))
	status, second := do(t, app, http.MethodPost, path, map[string]any{"quantity": "4"}, apphttp.HeaderIdempotencyKey, "po-1")
	require.Equal(t, http.StatusCreated, status, string(second))
	assert.Equal(t, decode[dto.TransactionResponse](t, first).ID, decode[dto.TransactionResponse](t, second).ID)

	_, body := do(t, app, http.MethodGet, "/api/inventory/items/"+item.ID, nil)
	assert.True(t, decode[dto.ItemResponse](t, body).CurrentStock.Equal(d("4")))
}

func TestDeleteItem(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Canela", "g", "30", "10")

	status, body := do(t, app, http.MethodDelete, "/api/inventory/items/"+item.ID, map[string]any{"reason": "descontinuado"})
	require.Equal(t, http.StatusOK, status, string(body))
	tx := decode[dto.TransactionResponse](t, body)
	assert.Equal(t, "deletion", tx.Type)
	assert.True(t, tx.NewStock.IsZero())

	status, _ = do(t, app, http.MethodGet, "/api/inventory/items/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReplenishmentList(t *testing.T) {
	app := buildTestApp()
	createItem(t, app, "Leche", "ml", "50", "100")
	createItem(t, app, "Café", "g", "900", "100")

	status, body := do(t, app, http.MethodGet, "/api/inventory/replenishment-list", nil)
	require.Equal(t, http.StatusOK, status)
	out := decode[struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}](t, body)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "Leche", out.Replenishments[0].ItemName)
	assert.True(t, out.Replenishments[0].SuggestedOrderQty.Equal(d("100")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Recetas y consumo por venta
// ──────────────────────────────────────────────────────────────────────────────

func TestRecipesAndConsume(t *testing.T) {
	app := buildTestApp()
	coffee := createItem(t, app, "Café", "g", "1000", "100")
	milk := createItem(t, app, "Leche", "ml", "5000", "1000")

	status, body := do(t, app, http.MethodPost, "/api/recipes", map[string]any{
		"scope": "base", "product_id": "latte",
		"ingredients": []map[string]any{
			{"inventory_item_id": coffee.ID, "quantity_needed": "15"},
			{"inventory_item_id": milk.ID, "quantity_needed": "200", "unit": "ml"},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	base := decode[dto.RecipeResponse](t, body)
	assert.Equal(t, "g", base.Ingredients[0].Unit)

	status, body = do(t, app, http.MethodPost, "/api/recipes", map[string]any{
		"scope": "product_override", "product_id": "latte",
		"variants": map[string]string{"size": "large", "milk": "oat"},
		"ingredients": []map[string]any{
			{"inventory_item_id": coffee.ID, "quantity_needed": "18"},
			{"inventory_item_id": milk.ID, "quantity_needed": "300"},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	// Resolver sin descontar stock.
	status, body = do(t, app, http.MethodPost, "/api/recipes/resolve", map[string]any{
		"product_id": "latte", "variants": map[string]string{"size": "large", "milk": "oat"},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	res := decode[dto.ResolveRecipeResponse](t, body)
	assert.Equal(t, "product_override", res.Source)
	assert.True(t, res.Ingredients[0].QuantityNeeded.Equal(d("18")))

	// Consumir dos unidades del override.
	status, body = do(t, app, http.MethodPost, "/api/sales/consume", map[string]any{
		"product_id": "latte", "variants": map[string]string{"size": "large", "milk": "oat"}, "units": "2",
	}, apphttp.HeaderIdempotencyKey, "sale-1")
	require.Equal(t, http.StatusCreated, status, string(body))
	consumed := decode[dto.ConsumeResponse](t, body)
	assert.Equal(t, "product_override", consumed.Source)
	assert.Len(t, consumed.Transactions, 2)
	assert.False(t, consumed.Replayed)

	// La misma clave repite la respuesta sin descontar de nuevo.
	status, body = do(t, app, http.MethodPost, "/api/sales/consume", map[string]any{
		"product_id": "latte", "variants": map[string]string{"size": "large", "milk": "oat"}, "units": "2",
	}, apphttp.HeaderIdempotencyKey, "sale-1")
	require.Equal(t, http.StatusOK, status, string(body))
	assert.True(t, decode[dto.ConsumeResponse](t, body).Replayed)

	_, body = do(t, app, http.MethodGet, "/api/inventory/items/"+coffee.ID, nil)
	assert.True(t, decode[dto.ItemResponse](t, body).CurrentStock.Equal(d("964")))

	// Sin stock suficiente: 409 y nada cambia.
	status, body = do(t, app, http.MethodPost, "/api/sales/consume", map[string]any{"product_id": "latte", "units": "100"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, body).Code)
	_, body = do(t, app, http.MethodGet, "/api/inventory/items/"+milk.ID, nil)
	assert.True(t, decode[dto.ItemResponse](t, body).CurrentStock.Equal(d("4400")))

	// Producto sin receta: 200 sin movimientos.
	status, body = do(t, app, http.MethodPost, "/api/sales/consume", map[string]any{"product_id": "water", "units": "1"})
	require.Equal(t, http.StatusOK, status, string(body))
	none := decode[dto.ConsumeResponse](t, body)
	assert.Equal(t, "none", none.Source)
	assert.Empty(t, none.Transactions)

	// Listado, detalle y borrado de recetas.
	status, body = do(t, app, http.MethodGet, "/api/recipes?product_id=latte", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.RecipeResponse](t, body), 2)

	status, _ = do(t, app, http.MethodDelete, "/api/recipes/"+base.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodGet, "/api/recipes/"+base.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpsertRecipe_Duplicada(t *testing.T) {
	app := buildTestApp()
	coffee := createItem(t, app, "Café", "g", "100", "10")
	recipeBody := map[string]any{
		"scope": "base", "product_id": "espresso",
		"ingredients": []map[string]any{{"inventory_item_id": coffee.ID, "quantity_needed": "9"}},
	}
	status, _ := do(t, app, http.MethodPost, "/api/recipes", recipeBody)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodPost, "/api/recipes", recipeBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_RECIPE", decode[dto.ErrorResponse](t, body).Code)

	status, body = do(t, app, http.MethodPost, "/api/recipes", map[string]any{
		"scope": "base", "product_id": "americano",
		"ingredients": []map[string]any{{"inventory_item_id": coffee.ID, "quantity_needed": "9", "unit": "ml"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNIT_MISMATCH", decode[dto.ErrorResponse](t, body).Code)
}
