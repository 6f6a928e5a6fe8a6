// Package rabbitmq содержит подключение к RabbitMQ, объявление обменника событий
// StockMate, публикацию и потребление сообщений.
package rabbitmq

// ExchangeEvents: direct-обменник доменных событий.
const ExchangeEvents = "stockmate.events"

// Ключи маршрутизации событий.
const (
	RoutingUserRegistered = "user.registered"
	RoutingUserDeleted    = "user.deleted"
)

// Очереди сервиса уведомлений.
const (
	QueueWelcome = "notification.welcome"
	QueueGoodbye = "notification.goodbye"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// UserEvent: тело событий user.registered и user.deleted.
type UserEvent struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// GetNotificationQueues возвращает очереди, которые слушает сервис уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueWelcome, RoutingKey: RoutingUserRegistered},
		{QueueName: QueueGoodbye, RoutingKey: RoutingUserDeleted},
	}
}
