// Package validation собирает валидатор go-playground с бизнес-правилами StockMate,
// которые зависят от нескольких полей сразу (единица измерения + количество).
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Теги правил уровня структуры.
const (
	TagWholePieces = "wholepcs"
	TagMinAmount   = "minamount"
	TagDate        = "date"
)

// New возвращает валидатор с зарегистрированными правилами для запросов запасов и покупок.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	// v9 не знает тега datetime, поэтому формат даты проверяем сами.
	if err := v.RegisterValidation(TagDate, isDate); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(inventoryRules, models.InventoryRequest{}, models.InventoryUpdateRequest{})
	v.RegisterStructValidation(shoppingRules, models.ShoppingRequest{}, models.ShoppingUpdateRequest{})
	return v
}

// jsonName возвращает имя поля из json-тега, чтобы ошибки совпадали с полями запроса.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// isDate проверяет строку на формат models.DateLayout.
func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, fl.Field().String())
	return err == nil
}

func inventoryRules(sl validator.StructLevel) {
	switch req := sl.Current().Interface().(type) {
	case models.InventoryRequest:
		if req.Unit == "pcs" && req.Quantity != nil && !models.IsWhole(*req.Quantity) {
			sl.ReportError(*req.Quantity, "quantity", "Quantity", TagWholePieces, "")
		}
	case models.InventoryUpdateRequest:
		if req.Unit != nil && *req.Unit == "pcs" && req.Quantity != nil && !models.IsWhole(*req.Quantity) {
			sl.ReportError(*req.Quantity, "quantity", "Quantity", TagWholePieces, "")
		}
	}
}

func shoppingRules(sl validator.StructLevel) {
	var (
		unit   string
		amount float64
	)
	switch req := sl.Current().Interface().(type) {
	case models.ShoppingRequest:
		unit, amount = req.Unit, req.Amount
	case models.ShoppingUpdateRequest:
		if req.Unit == nil || req.Amount == nil {
			return
		}
		unit, amount = *req.Unit, *req.Amount
	default:
		return
	}
	if amount <= 0 {
		return
	}
	if unit == "pcs" && !models.IsWhole(amount) {
		sl.ReportError(amount, "amount", "Amount", TagWholePieces, "")
		return
	}
	if minimum := models.MinPurchaseAmount(unit); amount < minimum {
		sl.ReportError(amount, "amount", "Amount", TagMinAmount, fmt.Sprintf("%g", minimum))
	}
}
