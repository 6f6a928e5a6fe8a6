// Package shopping содержит бизнес-логику списка покупок и сводку по бюджету.
package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Repository определяет методы хранилища списка покупок.
type Repository interface {
	CreateShoppingItem(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error)
	ListShopping(ctx context.Context, userID string) ([]*models.ShoppingItem, error)
	UpdateShoppingItem(ctx context.Context, id, userID string, patch models.ShoppingPatch) (*models.ShoppingItem, error)
	RemoveShoppingItem(ctx context.Context, id, userID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует операции над списком покупок пользователя.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// CacheKey возвращает ключ кешированного списка покупок пользователя.
func CacheKey(userID string) string {
	return "shopping:" + userID
}

// List возвращает список покупок пользователя, используя кеш.
func (s *Service) List(ctx context.Context, userID string) ([]*models.ShoppingItem, error) {
	const op = "shopping.List"
	key := CacheKey(userID)
	var cached []*models.ShoppingItem
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, err := s.repo.ListShopping(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		s.log.Warn("failed to cache shopping list", slog.String("key", key), sl.Err(err))
	}
	return items, nil
}

// Create добавляет позицию от имени userID. Статус по умолчанию: pending.
func (s *Service) Create(ctx context.Context, userID string, req models.ShoppingRequest) (*models.ShoppingItem, error) {
	const op = "shopping.Create"
	item := models.ShoppingItem{
		UserID:   userID,
		ItemName: req.ItemName,
		Amount:   req.Amount,
		Price:    req.Price,
		Unit:     req.Unit,
		Status:   req.Status,
	}
	if item.Status == "" {
		item.Status = models.StatusPending
	}

	created, err := s.repo.CreateShoppingItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created shopping item", slog.String("id", created.ID))
	s.invalidate(ctx, userID)
	return created, nil
}

// Update частично обновляет позицию userID.
func (s *Service) Update(ctx context.Context, userID, id string,
	req models.ShoppingUpdateRequest) (*models.ShoppingItem, error) {
	const op = "shopping.Update"
	patch := models.ShoppingPatch{
		ItemName: req.ItemName,
		Amount:   req.Amount,
		Price:    req.Price,
		Unit:     req.Unit,
		Status:   req.Status,
	}
	item, err := s.repo.UpdateShoppingItem(ctx, id, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return item, nil
}

// Remove удаляет позицию userID.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	const op = "shopping.Remove"
	if err := s.repo.RemoveShoppingItem(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// Summary считает стоимость списка по статусам и, если задан бюджет, его остаток.
// Для каждой позиции вычисляется цена за стандартную единицу (кг, л, шт).
func (s *Service) Summary(ctx context.Context, userID string, budget *float64) (*models.ShoppingSummary, error) {
	const op = "shopping.Summary"
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := &models.ShoppingSummary{Lines: make([]models.ShoppingLine, 0, len(items))}
	for _, item := range items {
		summary.TotalCost += item.Price
		if item.Status == models.StatusPurchased {
			summary.PurchasedCost += item.Price
		} else {
			summary.PendingCost += item.Price
		}
		summary.Lines = append(summary.Lines, models.ShoppingLine{
			ID:            item.ID,
			ItemName:      item.ItemName,
			Status:        item.Status,
			Price:         item.Price,
			StandardPrice: models.StandardUnitPrice(item.Price, item.Amount, item.Unit),
		})
	}
	summary.TotalCost = round2(summary.TotalCost)
	summary.PendingCost = round2(summary.PendingCost)
	summary.PurchasedCost = round2(summary.PurchasedCost)

	if budget != nil {
		b := *budget
		left := round2(b - summary.TotalCost)
		summary.Budget = &b
		summary.BudgetLeft = &left
		summary.OverBudget = left < 0
	}
	return summary, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	key := CacheKey(userID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
