// Package models содержит доменные структуры StockMate, входные DTO запросов
// и общий каталог ошибок, по которому HTTP-слой выбирает статус ответа.
package models

import "errors"

var (
	// ErrNotFound: запись не существует или принадлежит другому пользователю (404).
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken: email уже зарегистрирован (409).
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials: неверный email или пароль (401).
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized: токен отсутствует, повреждён, просрочен или отозван (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation: нарушены бизнес-правила входных данных (422).
	ErrValidation = errors.New("validation failed")
)
