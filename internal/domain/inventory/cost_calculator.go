package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una reposición (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock resultante no es positivo devuelve el costo de entrada.
func WeightedAverageCost(currentStock, currentCost, incomingQty, incomingCost decimal.Decimal) decimal.Decimal {
	total := currentStock.Add(incomingQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return incomingCost
	}
	value := currentStock.Mul(currentCost).Add(incomingQty.Mul(incomingCost))
	return value.DivRound(total, 4)
}
