// Package auth содержит логику регистрации, входа, проверки и отзыва токенов доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/stockmate/internal/lib/jwt"
	"github.com/magabrotheeeer/stockmate/internal/lib/password"
	"github.com/magabrotheeeer/stockmate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stockmate/internal/lib/sl"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя; занятый email: models.ErrEmailTaken.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по ID или models.ErrNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// TouchLogin фиксирует время входа.
	TouchLogin(ctx context.Context, userID string, at time.Time) (*models.User, error)
	// UpdatePassword заменяет хеш пароля.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// RevocationStore хранит отозванные токены.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUserTokens(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	UserTokensRevokedAt(ctx context.Context, userID string) (time.Time, bool, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// dummyHash сравнивается с паролем при неизвестном email, чтобы вход занимал
// одинаковое время независимо от того, зарегистрирован ли адрес.
var dummyHash = sync.OnceValues(func() (string, error) {
	return password.GetHash("stockmate-login-placeholder")
})

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	revoked  RevocationStore
	events   EventPublisher
	log      *slog.Logger
	now      func() time.Time
	compare  func(hash, plain string) error
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, revoked RevocationStore,
	events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		revoked:  revoked,
		events:   events,
		log:      log,
		now:      time.Now,
		compare:  password.CompareHash,
	}
}

// Signup регистрирует пользователя, хеширует пароль и сразу выдаёт токен.
// Первый и последний вход фиксируются моментом регистрации.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResult, error) {
	const op = "auth.Signup"
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now().UTC()
	user, err := s.users.CreateUser(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		FirstLogin:   &now,
		LastLogin:    &now,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := rabbitmq.UserEvent{UserID: user.ID, Name: user.Name, Email: user.Email}
	if err := s.events.Publish(ctx, rabbitmq.RoutingUserRegistered, event); err != nil {
		s.log.Warn("failed to publish user registered event", slog.String("user_id", user.ID), sl.Err(err))
	}
	return result, nil
}

// Login проверяет email и пароль и выдаёт токен. Неизвестный email и неверный пароль
// неразличимы для клиента: оба дают models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		if hash, herr := dummyHash(); herr == nil {
			_ = s.compare(hash, req.Password)
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	touched, err := s.users.TouchLogin(ctx, user.ID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.issue(touched)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ValidateToken проверяет подпись, срок действия и отзыв токена.
// Любая причина отказа возвращает models.ErrUnauthorized; ошибка хранилища
// отзывов возвращается как есть.
func (s *Service) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	const op = "auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
	}

	revoked, err := s.revoked.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w: token revoked", op, models.ErrUnauthorized)
	}

	revokedAt, ok, err := s.revoked.UserTokensRevokedAt(ctx, claims.UserID())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ok && (claims.IssuedAt == nil || claims.IssuedAt.Before(revokedAt)) {
		return nil, fmt.Errorf("%s: %w: token issued before revocation", op, models.ErrUnauthorized)
	}
	return claims, nil
}

// Logout отзывает предъявленный токен до истечения его срока.
func (s *Service) Logout(ctx context.Context, claims *jwt.Claims) error {
	const op = "auth.Logout"
	if claims == nil || claims.ExpiresAt == nil {
		return fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	ttl := claims.ExpiresAt.Sub(s.now()) + time.Second
	if err := s.revoked.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RevokeUser отзывает все ранее выданные токены пользователя.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	const op = "auth.RevokeUser"
	ttl := s.jwtMaker.TTL() + time.Second
	if err := s.revoked.RevokeUserTokens(ctx, userID, s.now(), ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChangePassword проверяет текущий пароль, сохраняет новый хеш, отзывает старые
// токены и выдаёт новый.
func (s *Service) ChangePassword(ctx context.Context, userID string,
	req models.PasswordChangeRequest) (*models.AuthResult, error) {
	const op = "auth.ChangePassword"
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w: current password is incorrect", op, models.ErrValidation)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.RevokeUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Service) issue(user *models.User) (*models.AuthResult, error) {
	token, claims, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}
