package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedTokenPrefix  = "revoked:"
	revokedBeforePrefix = "revoked_before:"
)

// RevokeToken помечает токен с идентификатором jti отозванным на время ttl.
func (c *Cache) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "cache.RevokeToken"
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedTokenPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsTokenRevoked сообщает, отозван ли токен jti.
func (c *Cache) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "cache.IsTokenRevoked"
	n, err := c.Db.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// RevokeUserTokens отзывает все токены пользователя, выпущенные раньше at.
// Отметка хранится ttl: к этому моменту все старые токены истекут сами.
func (c *Cache) RevokeUserTokens(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	const op = "cache.RevokeUserTokens"
	if err := c.Db.Set(ctx, revokedBeforePrefix+userID, at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UserTokensRevokedAt возвращает момент массового отзыва токенов пользователя.
func (c *Cache) UserTokensRevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	const op = "cache.UserTokensRevokedAt"
	val, err := c.Db.Get(ctx, revokedBeforePrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	sec, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return time.Unix(sec, 0), true, nil
}
