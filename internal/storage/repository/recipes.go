package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/magabrotheeeer/stockmate/internal/models"
)

const recipeColumns = `id, user_id, title, ingredients, instructions, created_at`

// typeMap разбирает text[] в []string при чтении через database/sql.
var typeMap = pgtype.NewMap()

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	r := &models.Recipe{}
	var ingredients []string
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, typeMap.SQLScanner(&ingredients),
		&r.Instructions, &r.CreatedAt); err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []string{}
	}
	r.Ingredients = ingredients
	return r, nil
}

// CreateRecipe сохраняет рецепт владельца recipe.UserID.
func (s *Storage) CreateRecipe(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	const op = "storage.CreateRecipe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}

	query := `INSERT INTO recipes (id, user_id, title, ingredients, instructions)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + recipeColumns
	created, err := scanRecipe(s.DB.QueryRowContext(ctx, query,
		recipe.ID, recipe.UserID, recipe.Title, recipe.Ingredients, recipe.Instructions))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// ListRecipes возвращает рецепты пользователя.
func (s *Storage) ListRecipes(ctx context.Context, userID string) ([]*models.Recipe, error) {
	const op = "storage.ListRecipes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + recipeColumns + `
			  FROM recipes
			  WHERE user_id = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRecipe частично обновляет рецепт, если он принадлежит userID.
// patch.Ingredients == nil оставляет ингредиенты без изменений.
func (s *Storage) UpdateRecipe(ctx context.Context, id, userID string, patch models.RecipePatch) (*models.Recipe, error) {
	const op = "storage.UpdateRecipe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var ingredients any
	if patch.Ingredients != nil {
		ingredients = patch.Ingredients
	}
	query := `UPDATE recipes
			  SET title = COALESCE($3, title),
			      ingredients = COALESCE($4::text[], ingredients),
			      instructions = COALESCE($5, instructions)
			  WHERE id = $1 AND user_id = $2
			  RETURNING ` + recipeColumns
	r, err := scanRecipe(s.DB.QueryRowContext(ctx, query, id, userID,
		patch.Title, ingredients, patch.Instructions))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return r, nil
}

// RemoveRecipe удаляет рецепт, если он принадлежит userID.
func (s *Storage) RemoveRecipe(ctx context.Context, id, userID string) error {
	const op = "storage.RemoveRecipe"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err = affectedOrNotFound(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
