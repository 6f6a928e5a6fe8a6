package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// expiryLeeway компенсирует секундную точность NumericDate:
// токен принимается ровно в момент exp и отклоняется секундой позже.
const expiryLeeway = time.Second

// Claims описывает данные, хранящиеся в JWT.
// Subject содержит идентификатор пользователя, ID: уникальный идентификатор токена.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID возвращает идентификатор пользователя, для которого выпущен токен.
func (c *Claims) UserID() string {
	return c.Subject
}

// GenerateToken создает JWT токен для userID, подписывая его секретным ключом по HS256.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(userID string) (string, *Claims, error) {
	const op = "jwt.GenerateToken"
	if userID == "" {
		return "", nil, fmt.Errorf("%s: empty user id", op)
	}
	now := j.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return signed, claims, nil
}

// ParseToken парсит JWT токен, проверяет алгоритм, подпись и срок действия,
// возвращает Claims, если токен корректен.
//
// Любая причина отказа оборачивается в ErrInvalidToken.
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(expiryLeeway),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
