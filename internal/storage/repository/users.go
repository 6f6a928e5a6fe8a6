package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/stockmate/internal/lib/password"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

// ErrPlaintextPassword возвращается при попытке сохранить пароль, не являющийся bcrypt-хешем.
var ErrPlaintextPassword = errors.New("password hash expected")

const userColumns = `id, name, email, password_hash, dob, phone, address,
			      first_login, last_login, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var dob, firstLogin, lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &dob, &u.Phone, &u.Address,
		&firstLogin, &lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.DOB = nullTime(dob)
	u.FirstLogin = nullTime(firstLogin)
	u.LastLogin = nullTime(lastLogin)
	return u, nil
}

// CreateUser сохраняет нового пользователя. Пароль должен быть уже захеширован.
// Занятый email возвращает models.ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !password.IsHash(user.PasswordHash) {
		return nil, fmt.Errorf("%s: %w", op, ErrPlaintextPassword)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `INSERT INTO users (id, name, email, password_hash, dob, phone, address,
			      first_login, last_login)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.DOB, user.Phone, user.Address,
		user.FirstLogin, user.LastLogin))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// UpdateUser частично обновляет профиль одним запросом. Хеш пароля не меняется.
func (s *Storage) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE($2, name),
			      email = COALESCE($3, email),
			      dob = COALESCE($4, dob),
			      phone = COALESCE($5, phone),
			      address = COALESCE($6, address),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID,
		patch.Name, patch.Email, patch.DOB, patch.Phone, patch.Address))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// UpdatePassword заменяет хеш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if !password.IsHash(passwordHash) {
		return fmt.Errorf("%s: %w", op, ErrPlaintextPassword)
	}

	query := `UPDATE users
			  SET password_hash = $2, updated_at = now()
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = affectedOrNotFound(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TouchLogin фиксирует вход: first_login заполняется один раз, last_login всегда.
func (s *Storage) TouchLogin(ctx context.Context, userID string, at time.Time) (*models.User, error) {
	const op = "storage.TouchLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_login = COALESCE(first_login, $2),
			      last_login = $2
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID, at))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// DeleteUser удаляет пользователя вместе со всеми его записями (ON DELETE CASCADE)
// и возвращает удалённую запись.
func (s *Storage) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// CountOwned считает записи пользователя во всех ресурсах.
func (s *Storage) CountOwned(ctx context.Context, userID string) (models.OwnedCounts, error) {
	const op = "storage.CountOwned"
	var counts models.OwnedCounts
	select {
	case <-ctx.Done():
		return counts, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM inventory WHERE user_id = $1),
			      (SELECT COUNT(*) FROM shopping WHERE user_id = $1),
			      (SELECT COUNT(*) FROM recipes WHERE user_id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&counts.InventoryItems, &counts.ShoppingItems, &counts.Recipes); err != nil {
		return counts, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return counts, nil
}
