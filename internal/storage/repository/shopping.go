package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/stockmate/internal/models"
)

const shoppingColumns = `id, user_id, item_name, amount, price, unit, status, created_at`

func scanShoppingItem(row rowScanner) (*models.ShoppingItem, error) {
	item := &models.ShoppingItem{}
	if err := row.Scan(&item.ID, &item.UserID, &item.ItemName, &item.Amount, &item.Price,
		&item.Unit, &item.Status, &item.CreatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateShoppingItem сохраняет позицию списка покупок владельца item.UserID.
func (s *Storage) CreateShoppingItem(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	const op = "storage.CreateShoppingItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.StatusPending
	}

	query := `INSERT INTO shopping (id, user_id, item_name, amount, price, unit, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + shoppingColumns
	created, err := scanShoppingItem(s.DB.QueryRowContext(ctx, query,
		item.ID, item.UserID, item.ItemName, item.Amount, item.Price, item.Unit, item.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// ListShopping возвращает список покупок пользователя.
func (s *Storage) ListShopping(ctx context.Context, userID string) ([]*models.ShoppingItem, error) {
	const op = "storage.ListShopping"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + shoppingColumns + `
			  FROM shopping
			  WHERE user_id = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.ShoppingItem, 0)
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateShoppingItem частично обновляет позицию, если она принадлежит userID.
func (s *Storage) UpdateShoppingItem(ctx context.Context, id, userID string,
	patch models.ShoppingPatch) (*models.ShoppingItem, error) {
	const op = "storage.UpdateShoppingItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE shopping
			  SET item_name = COALESCE($3, item_name),
			      amount = COALESCE($4, amount),
			      price = COALESCE($5, price),
			      unit = COALESCE($6, unit),
			      status = COALESCE($7, status)
			  WHERE id = $1 AND user_id = $2
			  RETURNING ` + shoppingColumns
	item, err := scanShoppingItem(s.DB.QueryRowContext(ctx, query, id, userID,
		patch.ItemName, patch.Amount, patch.Price, patch.Unit, patch.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return item, nil
}

// RemoveShoppingItem удаляет позицию, если она принадлежит userID.
func (s *Storage) RemoveShoppingItem(ctx context.Context, id, userID string) error {
	const op = "storage.RemoveShoppingItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM shopping WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = affectedOrNotFound(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
