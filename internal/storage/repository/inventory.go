package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/stockmate/internal/models"
)

const inventoryColumns = `id, user_id, item_name, quantity, unit, category, expiry_date, added_at`

func scanInventoryItem(row rowScanner) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	var expiry sql.NullTime
	if err := row.Scan(&item.ID, &item.UserID, &item.ItemName, &item.Quantity, &item.Unit,
		&item.Category, &expiry, &item.AddedAt); err != nil {
		return nil, err
	}
	item.ExpiryDate = nullTime(expiry)
	return item, nil
}

// CreateInventoryItem сохраняет позицию запасов владельца item.UserID.
func (s *Storage) CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	const op = "storage.CreateInventoryItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query := `INSERT INTO inventory (id, user_id, item_name, quantity, unit, category, expiry_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + inventoryColumns
	created, err := scanInventoryItem(s.DB.QueryRowContext(ctx, query,
		item.ID, item.UserID, item.ItemName, item.Quantity, item.Unit, item.Category, item.ExpiryDate))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// ListInventory возвращает все позиции запасов пользователя.
func (s *Storage) ListInventory(ctx context.Context, userID string) ([]*models.InventoryItem, error) {
	const op = "storage.ListInventory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + inventoryColumns + `
			  FROM inventory
			  WHERE user_id = $1
			  ORDER BY added_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
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

// UpdateInventoryItem частично обновляет позицию, если она принадлежит userID.
// Иначе возвращает models.ErrNotFound.
func (s *Storage) UpdateInventoryItem(ctx context.Context, id, userID string,
	patch models.InventoryPatch) (*models.InventoryItem, error) {
	const op = "storage.UpdateInventoryItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE inventory
			  SET item_name = COALESCE($3, item_name),
			      quantity = COALESCE($4, quantity),
			      unit = COALESCE($5, unit),
			      category = COALESCE($6, category),
			      expiry_date = COALESCE($7, expiry_date)
			  WHERE id = $1 AND user_id = $2
			  RETURNING ` + inventoryColumns
	item, err := scanInventoryItem(s.DB.QueryRowContext(ctx, query, id, userID,
		patch.ItemName, patch.Quantity, patch.Unit, patch.Category, patch.ExpiryDate))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return item, nil
}

// RemoveInventoryItem удаляет позицию, если она принадлежит userID.
func (s *Storage) RemoveInventoryItem(ctx context.Context, id, userID string) error {
	const op = "storage.RemoveInventoryItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = affectedOrNotFound(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
