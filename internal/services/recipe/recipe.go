// Package recipe содержит бизнес-логику рецептов пользователя.
package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Repository определяет методы хранилища рецептов.
type Repository interface {
	CreateRecipe(ctx context.Context, recipe models.Recipe) (*models.Recipe, error)
	ListRecipes(ctx context.Context, userID string) ([]*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, userID string, patch models.RecipePatch) (*models.Recipe, error)
	RemoveRecipe(ctx context.Context, id, userID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует операции над рецептами пользователя.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, log: log}
}

// CacheKey возвращает ключ кешированного списка рецептов пользователя.
func CacheKey(userID string) string {
	return "recipes:" + userID
}

// List возвращает рецепты пользователя.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Recipe, error) {
	const op = "recipe.List"
	key := CacheKey(userID)
	var cached []*models.Recipe
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	recipes, err := s.repo.ListRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, recipes, s.ttl); err != nil {
		s.log.Warn("failed to cache recipes", slog.String("key", key), sl.Err(err))
	}
	return recipes, nil
}

// Create сохраняет рецепт от имени userID.
func (s *Service) Create(ctx context.Context, userID string, req models.RecipeRequest) (*models.Recipe, error) {
	const op = "recipe.Create"
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	created, err := s.repo.CreateRecipe(ctx, models.Recipe{
		UserID:       userID,
		Title:        req.Title,
		Ingredients:  ingredients,
		Instructions: req.Instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created recipe", slog.String("id", created.ID))
	s.invalidate(ctx, userID)
	return created, nil
}

// Update частично обновляет рецепт userID.
func (s *Service) Update(ctx context.Context, userID, id string, req models.RecipeUpdateRequest) (*models.Recipe, error) {
	const op = "recipe.Update"
	recipe, err := s.repo.UpdateRecipe(ctx, id, userID, models.RecipePatch{
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return recipe, nil
}

// Remove удаляет рецепт userID.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	const op = "recipe.Remove"
	if err := s.repo.RemoveRecipe(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	key := CacheKey(userID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}
