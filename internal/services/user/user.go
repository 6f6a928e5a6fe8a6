// Package user содержит бизнес-логику профиля: чтение, обновление, удаление
// аккаунта и отчёт об активности. Доступ разрешён только к собственному профилю.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/stockmate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) (*models.User, error)
	CountOwned(ctx context.Context, userID string) (models.OwnedCounts, error)
}

// TokenRevoker отзывает все токены пользователя.
type TokenRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// CacheInvalidator удаляет кешированные списки.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service реализует операции над профилем пользователя.
type Service struct {
	repo      Repository
	tokens    TokenRevoker
	cache     CacheInvalidator
	events    EventPublisher
	cacheKeys []func(userID string) string
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service. cacheKeys перечисляет ключи списков,
// которые нужно сбросить при удалении аккаунта.
func NewService(repo Repository, tokens TokenRevoker, cache CacheInvalidator, events EventPublisher,
	log *slog.Logger, cacheKeys ...func(userID string) string) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		cache:     cache,
		events:    events,
		cacheKeys: cacheKeys,
		log:       log,
		now:       time.Now,
	}
}

// Get возвращает профиль id, если он принадлежит callerID.
func (s *Service) Get(ctx context.Context, callerID, id string) (*models.User, error) {
	const op = "user.Get"
	if id != callerID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update частично обновляет профиль. Пароль этим методом не меняется.
func (s *Service) Update(ctx context.Context, callerID, id string, req models.UserUpdateRequest) (*models.User, error) {
	const op = "user.Update"
	if id != callerID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	patch := models.UserPatch{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.DOB != nil {
		dob, err := models.ParseDate(*req.DOB)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dob.After(s.now()) {
			return nil, fmt.Errorf("%s: %w: date of birth is in the future", op, models.ErrValidation)
		}
		patch.DOB = &dob
	}

	u, err := s.repo.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Delete удаляет аккаунт вместе со всеми записями пользователя и отзывает его токены.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	const op = "user.Delete"
	if id != callerID {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	// токены отзываются до удаления: при сбое хранилища отзывов аккаунт остаётся целым
	if err := s.tokens.RevokeUser(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	u, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted user", slog.String("user_id", id))

	keys := make([]string, 0, len(s.cacheKeys))
	for _, key := range s.cacheKeys {
		keys = append(keys, key(id))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to remove from cache", slog.Any("keys", keys), sl.Err(err))
	}

	event := rabbitmq.UserEvent{UserID: u.ID, Name: u.Name, Email: u.Email}
	if err := s.events.Publish(ctx, rabbitmq.RoutingUserDeleted, event); err != nil {
		s.log.Warn("failed to publish user deleted event", slog.String("user_id", id), sl.Err(err))
	}
	return nil
}

// Report собирает отчёт об активности: возраст аккаунта в днях, заполненность
// профиля в процентах и количество записей пользователя.
func (s *Service) Report(ctx context.Context, callerID, id string) (*models.ActivityReport, error) {
	const op = "user.Report"
	u, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	counts, err := s.repo.CountOwned(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	age := 0
	if !u.CreatedAt.IsZero() && now.After(u.CreatedAt) {
		age = int(now.Sub(u.CreatedAt).Hours() / 24)
	}
	return &models.ActivityReport{
		User:              u,
		AccountAgeDays:    age,
		ProfileCompletion: profileCompletion(u),
		Owned:             counts,
		GeneratedAt:       now,
	}, nil
}

// profileCompletion: доля заполненных полей из name, email, phone, address, dob.
func profileCompletion(u *models.User) int {
	filled := 0
	for _, ok := range []bool{u.Name != "", u.Email != "", u.Phone != "", u.Address != "", u.DOB != nil} {
		if ok {
			filled++
		}
	}
	return filled * 100 / 5
}
