package models

import "time"

// User представляет зарегистрированного пользователя StockMate.
// PasswordHash никогда не сериализуется в ответы.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DOB          *time.Time `json:"dob,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	FirstLogin   *time.Time `json:"firstLogin,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// SignupRequest: входные данные регистрации.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest: входные данные авторизации.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult возвращается после регистрации, входа и смены пароля.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// UserUpdateRequest: частичное обновление профиля. Пароль здесь не меняется.
type UserUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email   *string `json:"email" validate:"omitempty,email,max=254"`
	DOB     *string `json:"dob" validate:"omitempty,date"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

// UserPatch: разобранное обновление профиля для слоя хранения; nil означает "не менять".
type UserPatch struct {
	Name    *string
	Email   *string
	DOB     *time.Time
	Phone   *string
	Address *string
}

// PasswordChangeRequest: смена пароля текущего пользователя.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,nefield=CurrentPassword"`
}

// OwnedCounts: количество записей, принадлежащих пользователю.
type OwnedCounts struct {
	InventoryItems int `json:"inventoryItems"`
	ShoppingItems  int `json:"shoppingItems"`
	Recipes        int `json:"recipes"`
}

// ActivityReport собирает сводку активности аккаунта.
type ActivityReport struct {
	User              *User       `json:"user"`
	AccountAgeDays    int         `json:"accountAgeDays"`
	ProfileCompletion int         `json:"profileCompletion"`
	Owned             OwnedCounts `json:"owned"`
	GeneratedAt       time.Time   `json:"generatedAt"`
}
