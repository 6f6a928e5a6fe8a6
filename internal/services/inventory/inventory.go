// Package inventory содержит бизнес-логику домашних запасов: CRUD в пределах владельца,
// кеширование списка и оповещения о низком остатке и сроке годности.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// expiringWindow: горизонт, в пределах которого срок годности считается скорым.
const expiringWindow = 7 * 24 * time.Hour

// Repository определяет методы хранилища запасов. Все операции ограничены владельцем.
type Repository interface {
	CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error)
	ListInventory(ctx context.Context, userID string) ([]*models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id, userID string, patch models.InventoryPatch) (*models.InventoryItem, error)
	RemoveInventoryItem(ctx context.Context, id, userID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует операции над запасами пользователя.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service. ttl: время жизни кешированного списка.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

// CacheKey возвращает ключ кешированного списка запасов пользователя.
func CacheKey(userID string) string {
	return "inventory:" + userID
}

// List возвращает запасы пользователя, используя кеш.
func (s *Service) List(ctx context.Context, userID string) ([]*models.InventoryItem, error) {
	const op = "inventory.List"
	key := CacheKey(userID)
	var cached []*models.InventoryItem
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, err := s.repo.ListInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		s.log.Warn("failed to cache inventory", slog.String("key", key), sl.Err(err))
	}
	return items, nil
}

// Create добавляет позицию от имени userID. Количество по умолчанию 1, категория: Other.
func (s *Service) Create(ctx context.Context, userID string, req models.InventoryRequest) (*models.InventoryItem, error) {
	const op = "inventory.Create"
	item := models.InventoryItem{
		UserID:   userID,
		ItemName: req.ItemName,
		Quantity: 1,
		Unit:     req.Unit,
		Category: req.Category,
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if item.Category == "" {
		item.Category = "Other"
	}
	if req.ExpiryDate != "" {
		expiry, err := models.ParseDate(req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.ExpiryDate = &expiry
	}

	created, err := s.repo.CreateInventoryItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created inventory item", slog.String("id", created.ID))
	s.invalidate(ctx, userID)
	return created, nil
}

// Update частично обновляет позицию userID. Чужая или несуществующая позиция: models.ErrNotFound.
func (s *Service) Update(ctx context.Context, userID, id string,
	req models.InventoryUpdateRequest) (*models.InventoryItem, error) {
	const op = "inventory.Update"
	patch := models.InventoryPatch{
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
	}
	if req.ExpiryDate != nil {
		expiry, err := models.ParseDate(*req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		patch.ExpiryDate = &expiry
	}

	item, err := s.repo.UpdateInventoryItem(ctx, id, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return item, nil
}

// Remove удаляет позицию userID.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	const op = "inventory.Remove"
	if err := s.repo.RemoveInventoryItem(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// Alerts возвращает позиции с остатком не выше порога своей единицы и позиции,
// срок годности которых наступает в ближайшие 7 дней. Просроченные в оповещения не попадают.
func (s *Service) Alerts(ctx context.Context, userID string) (*models.InventoryAlerts, error) {
	const op = "inventory.Alerts"
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	horizon := today.Add(expiringWindow)
	alerts := &models.InventoryAlerts{
		LowStock:     make([]*models.InventoryItem, 0),
		ExpiringSoon: make([]*models.InventoryItem, 0),
	}
	for _, item := range items {
		if item.Quantity <= models.LowStockThreshold(item.Unit) {
			alerts.LowStock = append(alerts.LowStock, item)
		}
		if item.ExpiryDate != nil {
			expiry := item.ExpiryDate.UTC()
			if !expiry.Before(today) && !expiry.After(horizon) {
				alerts.ExpiringSoon = append(alerts.ExpiringSoon, item)
			}
		}
	}
	return alerts, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	key := CacheKey(userID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}
