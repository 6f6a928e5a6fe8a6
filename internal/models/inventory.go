package models

import "time"

// InventoryItem: продукт в домашних запасах пользователя.
type InventoryItem struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user"`
	ItemName   string     `json:"itemName"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	Category   string     `json:"category"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	AddedAt    time.Time  `json:"addedAt"`
}

// InventoryRequest: входные данные новой позиции запасов.
// Владелец позиции берётся только из токена.
type InventoryRequest struct {
	ItemName   string   `json:"itemName" validate:"required,max=200"`
	Quantity   *float64 `json:"quantity" validate:"omitempty,gt=0"`
	Unit       string   `json:"unit" validate:"required,oneof=pcs g kg ml l"`
	Category   string   `json:"category" validate:"omitempty,oneof=Fruits Vegetables Dairy Bakery Meat Poultry Other"`
	ExpiryDate string   `json:"expiryDate" validate:"omitempty,date"`
}

// InventoryUpdateRequest: частичное обновление позиции запасов.
type InventoryUpdateRequest struct {
	ItemName   *string  `json:"itemName" validate:"omitempty,min=1,max=200"`
	Quantity   *float64 `json:"quantity" validate:"omitempty,gt=0"`
	Unit       *string  `json:"unit" validate:"omitempty,oneof=pcs g kg ml l"`
	Category   *string  `json:"category" validate:"omitempty,oneof=Fruits Vegetables Dairy Bakery Meat Poultry Other"`
	ExpiryDate *string  `json:"expiryDate" validate:"omitempty,date"`
}

// InventoryPatch: разобранное обновление для слоя хранения; nil означает "не менять".
type InventoryPatch struct {
	ItemName   *string
	Quantity   *float64
	Unit       *string
	Category   *string
	ExpiryDate *time.Time
}

// InventoryAlerts: позиции с низким остатком и скорым сроком годности.
type InventoryAlerts struct {
	LowStock     []*InventoryItem `json:"lowStock"`
	ExpiringSoon []*InventoryItem `json:"expiringSoon"`
}
