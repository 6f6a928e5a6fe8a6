package models

import "time"

// Recipe хранит рецепт пользователя. Ингредиенты упорядочены.
type Recipe struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecipeRequest: входные данные нового рецепта.
type RecipeRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Ingredients  []string `json:"ingredients" validate:"omitempty,dive,required,max=200"`
	Instructions string   `json:"instructions" validate:"max=10000"`
}

// RecipeUpdateRequest описывает частичное обновление рецепта.
// Ingredients равный nil не меняет список, пустой массив очищает его.
type RecipeUpdateRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Ingredients  []string `json:"ingredients" validate:"omitempty,dive,required,max=200"`
	Instructions *string  `json:"instructions" validate:"omitempty,max=10000"`
}

// RecipePatch: обновление для слоя хранения; nil означает "не менять".
type RecipePatch struct {
	Title        *string
	Ingredients  []string
	Instructions *string
}
