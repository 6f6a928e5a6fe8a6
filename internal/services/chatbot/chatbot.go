// Package chatbot реализует имитацию чат-бота.
package chatbot

import (
	"context"
	"fmt"
)

// Service формирует ответы чат-бота.
type Service struct{}

// NewService создает новый экземпляр Service.
func NewService() *Service {
	return &Service{}
}

// Reply возвращает ответ на сообщение пользователя.
func (s *Service) Reply(_ context.Context, message string) string {
	return fmt.Sprintf("You said: %s. This is a simulated chatbot response.", message)
}
