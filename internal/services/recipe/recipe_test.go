package recipe

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stockmate/internal/cache"
	"github.com/magabrotheeeer/stockmate/internal/config"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateRecipe(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *RepoMock) ListRecipes(ctx context.Context, userID string) ([]*models.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *RepoMock) UpdateRecipe(ctx context.Context, id, userID string, patch models.RecipePatch) (*models.Recipe, error) {
	args := m.Called(ctx, id, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *RepoMock) RemoveRecipe(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

// newService собирает сервис поверх настоящего кеша в miniredis.
func newService(t *testing.T, r *RepoMock) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return NewService(r, c, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_ListIsCachedUntilWrite(t *testing.T) {
	r := &RepoMock{}
	svc := newService(t, r)
	ctx := context.Background()

	first := []*models.Recipe{{ID: "r-1", UserID: "owner", Title: "Soup", Ingredients: []string{"water", "salt"}}}
	r.On("ListRecipes", mock.Anything, "owner").Return(first, nil).Once()

	got, err := svc.List(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = svc.List(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Soup", got[0].Title)
	assert.Equal(t, []string{"water", "salt"}, got[0].Ingredients)
	r.AssertNumberOfCalls(t, "ListRecipes", 1)

	r.On("CreateRecipe", mock.Anything, models.Recipe{UserID: "owner", Title: "Tea", Ingredients: []string{}}).
		Return(&models.Recipe{ID: "r-2", UserID: "owner", Title: "Tea"}, nil).Once()
	_, err = svc.Create(ctx, "owner", models.RecipeRequest{Title: "Tea"})
	require.NoError(t, err)

	second := append(first, &models.Recipe{ID: "r-2", UserID: "owner", Title: "Tea", Ingredients: []string{}})
	r.On("ListRecipes", mock.Anything, "owner").Return(second, nil).Once()
	got, err = svc.List(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	r.AssertNumberOfCalls(t, "ListRecipes", 2)
}

func TestService_UpdateRemove_NotOwned(t *testing.T) {
	r := &RepoMock{}
	svc := newService(t, r)
	title := "stolen"
	r.On("UpdateRecipe", mock.Anything, "r-1", "intruder", models.RecipePatch{Title: &title}).
		Return(nil, models.ErrNotFound).Once()
	r.On("RemoveRecipe", mock.Anything, "r-1", "intruder").Return(models.ErrNotFound).Once()

	_, err := svc.Update(context.Background(), "intruder", "r-1", models.RecipeUpdateRequest{Title: &title})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.ErrorIs(t, svc.Remove(context.Background(), "intruder", "r-1"), models.ErrNotFound)
}
