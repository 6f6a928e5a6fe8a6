package models

import "time"

// Статусы позиции списка покупок.
const (
	StatusPending   = "pending"
	StatusPurchased = "purchased"
)

// ShoppingItem: позиция списка покупок.
type ShoppingItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	ItemName  string    `json:"itemName"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"timestamp"`
}

// ShoppingRequest: входные данные новой позиции списка покупок.
type ShoppingRequest struct {
	ItemName string  `json:"itemName" validate:"required,max=200"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Unit     string  `json:"unit" validate:"required,oneof=pcs g kg ml l"`
	Status   string  `json:"status" validate:"omitempty,oneof=pending purchased"`
}

// ShoppingUpdateRequest: частичное обновление позиции списка покупок.
type ShoppingUpdateRequest struct {
	ItemName *string  `json:"itemName" validate:"omitempty,min=1,max=200"`
	Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Unit     *string  `json:"unit" validate:"omitempty,oneof=pcs g kg ml l"`
	Status   *string  `json:"status" validate:"omitempty,oneof=pending purchased"`
}

// ShoppingPatch: обновление для слоя хранения; nil означает "не менять".
type ShoppingPatch struct {
	ItemName *string
	Amount   *float64
	Price    *float64
	Unit     *string
	Status   *string
}

// ShoppingLine: позиция сводки с ценой за стандартную единицу.
type ShoppingLine struct {
	ID            string  `json:"id"`
	ItemName      string  `json:"itemName"`
	Status        string  `json:"status"`
	Price         float64 `json:"price"`
	StandardPrice float64 `json:"standardPrice"`
}

// ShoppingSummary содержит стоимость списка покупок и остаток бюджета.
type ShoppingSummary struct {
	TotalCost     float64        `json:"totalCost"`
	PendingCost   float64        `json:"pendingCost"`
	PurchasedCost float64        `json:"purchasedCost"`
	Budget        *float64       `json:"budget,omitempty"`
	BudgetLeft    *float64       `json:"budgetLeft,omitempty"`
	OverBudget    bool           `json:"overBudget"`
	Lines         []ShoppingLine `json:"lines"`
}
