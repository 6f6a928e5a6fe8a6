package models

import (
	"fmt"
	"math"
	"time"
)

// DateLayout: формат дат в запросах (expiryDate, dob).
const DateLayout = "2006-01-02"

// Units: допустимые единицы измерения.
var Units = []string{"pcs", "g", "kg", "ml", "l"}

// Categories: допустимые категории продуктов.
var Categories = []string{"Fruits", "Vegetables", "Dairy", "Bakery", "Meat", "Poultry", "Other"}

// lowStockThresholds: остаток, при котором позиция считается заканчивающейся.
var lowStockThresholds = map[string]float64{
	"pcs": 10,
	"g":   100,
	"kg":  1,
	"ml":  100,
	"l":   1,
}

// minPurchaseAmounts: минимальное количество в позиции списка покупок.
var minPurchaseAmounts = map[string]float64{
	"pcs": 10,
	"g":   10,
	"kg":  0.01,
	"ml":  1,
	"l":   0.01,
}

// standardUnitFactors переводит количество в стандартную единицу (кг, л, шт).
var standardUnitFactors = map[string]float64{
	"pcs": 1,
	"g":   1000,
	"kg":  1,
	"ml":  1000,
	"l":   1,
}

// LowStockThreshold возвращает порог низкого остатка для единицы измерения.
func LowStockThreshold(unit string) float64 {
	if v, ok := lowStockThresholds[unit]; ok {
		return v
	}
	return 10
}

// MinPurchaseAmount возвращает минимальное количество для покупки в единице unit.
func MinPurchaseAmount(unit string) float64 {
	if v, ok := minPurchaseAmounts[unit]; ok {
		return v
	}
	return 1
}

// StandardUnitPrice возвращает цену за стандартную единицу (кг, л, шт).
func StandardUnitPrice(price, amount float64, unit string) float64 {
	factor, ok := standardUnitFactors[unit]
	if !ok || amount <= 0 {
		return 0
	}
	return math.Round(price/(amount/factor)*100) / 100
}

// IsWhole сообщает, является ли число целым.
func IsWhole(v float64) bool {
	return v == math.Trunc(v)
}

// ParseDate разбирает дату формата DateLayout.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, value)
	}
	return t, nil
}
