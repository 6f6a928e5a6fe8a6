package inventory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stockmate/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *RepoMock) ListInventory(ctx context.Context, userID string) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *RepoMock) UpdateInventoryItem(ctx context.Context, id, userID string,
	patch models.InventoryPatch) (*models.InventoryItem, error) {
	args := m.Called(ctx, id, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *RepoMock) RemoveInventoryItem(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(r *RepoMock, c *CacheMock) *Service {
	return NewService(r, c, time.Minute, newNoopLogger())
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestService_Create(t *testing.T) {
	qty := 3.0
	tests := []struct {
		name    string
		req     models.InventoryRequest
		want    models.InventoryItem
		wantErr error
	}{
		{
			name: "defaults quantity and category",
			req:  models.InventoryRequest{ItemName: "Apples", Unit: "pcs"},
			want: models.InventoryItem{UserID: "owner", ItemName: "Apples", Quantity: 1, Unit: "pcs", Category: "Other"},
		},
		{
			name: "explicit values and expiry",
			req: models.InventoryRequest{ItemName: "Milk", Quantity: &qty, Unit: "l", Category: "Dairy",
				ExpiryDate: "2026-03-05"},
			want: models.InventoryItem{UserID: "owner", ItemName: "Milk", Quantity: 3, Unit: "l", Category: "Dairy",
				ExpiryDate: date(2026, 3, 5)},
		},
		{
			name:    "bad date",
			req:     models.InventoryRequest{ItemName: "Milk", Unit: "l", ExpiryDate: "05-03-2026"},
			wantErr: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := &RepoMock{}, &CacheMock{}
			if tt.wantErr == nil {
				r.On("CreateInventoryItem", mock.Anything, tt.want).
					Return(&models.InventoryItem{ID: "item-1", UserID: "owner"}, nil).Once()
				c.On("Invalidate", mock.Anything, []string{"inventory:owner"}).Return(nil).Once()
			}

			got, err := newService(r, c).Create(context.Background(), "owner", tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				r.AssertNotCalled(t, "CreateInventoryItem", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "item-1", got.ID)
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestService_List(t *testing.T) {
	items := []*models.InventoryItem{{ID: "item-1", UserID: "owner"}}

	t.Run("cache hit", func(t *testing.T) {
		r, c := &RepoMock{}, &CacheMock{}
		c.On("Get", mock.Anything, "inventory:owner", mock.Anything).Return(true, nil).Once()

		_, err := newService(r, c).List(context.Background(), "owner")
		require.NoError(t, err)
		r.AssertNotCalled(t, "ListInventory", mock.Anything, mock.Anything)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		r, c := &RepoMock{}, &CacheMock{}
		c.On("Get", mock.Anything, "inventory:owner", mock.Anything).Return(false, nil).Once()
		r.On("ListInventory", mock.Anything, "owner").Return(items, nil).Once()
		c.On("Set", mock.Anything, "inventory:owner", items, time.Minute).Return(nil).Once()

		got, err := newService(r, c).List(context.Background(), "owner")
		require.NoError(t, err)
		assert.Equal(t, items, got)
		c.AssertExpectations(t)
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		r, c := &RepoMock{}, &CacheMock{}
		c.On("Get", mock.Anything, "inventory:owner", mock.Anything).Return(false, errors.New("redis down")).Once()
		r.On("ListInventory", mock.Anything, "owner").Return(items, nil).Once()
		c.On("Set", mock.Anything, "inventory:owner", items, time.Minute).Return(errors.New("redis down")).Once()

		got, err := newService(r, c).List(context.Background(), "owner")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("store failure", func(t *testing.T) {
		r, c := &RepoMock{}, &CacheMock{}
		c.On("Get", mock.Anything, "inventory:owner", mock.Anything).Return(false, nil).Once()
		r.On("ListInventory", mock.Anything, "owner").Return(nil, errors.New("db down")).Once()

		_, err := newService(r, c).List(context.Background(), "owner")
		require.Error(t, err)
	})
}

func TestService_UpdateAndRemove_NotOwned(t *testing.T) {
	r, c := &RepoMock{}, &CacheMock{}
	qty := 2.0
	r.On("UpdateInventoryItem", mock.Anything, "item-1", "intruder", models.InventoryPatch{Quantity: &qty}).
		Return(nil, models.ErrNotFound).Once()
	r.On("RemoveInventoryItem", mock.Anything, "item-1", "intruder").Return(models.ErrNotFound).Once()
	svc := newService(r, c)

	_, err := svc.Update(context.Background(), "intruder", "item-1", models.InventoryUpdateRequest{Quantity: &qty})
	require.ErrorIs(t, err, models.ErrNotFound)
	err = svc.Remove(context.Background(), "intruder", "item-1")
	require.ErrorIs(t, err, models.ErrNotFound)
	c.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestService_Update(t *testing.T) {
	r, c := &RepoMock{}, &CacheMock{}
	expiry := "2026-04-01"
	r.On("UpdateInventoryItem", mock.Anything, "item-1", "owner",
		models.InventoryPatch{ExpiryDate: date(2026, 4, 1)}).
		Return(&models.InventoryItem{ID: "item-1"}, nil).Once()
	c.On("Invalidate", mock.Anything, []string{"inventory:owner"}).Return(errors.New("redis down")).Once()

	got, err := newService(r, c).Update(context.Background(), "owner", "item-1",
		models.InventoryUpdateRequest{ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, "item-1", got.ID)
	r.AssertExpectations(t)
}

func TestService_Alerts(t *testing.T) {
	items := []*models.InventoryItem{
		{ID: "few-pcs", Quantity: 10, Unit: "pcs"},
		{ID: "many-pcs", Quantity: 11, Unit: "pcs"},
		{ID: "little-flour", Quantity: 100, Unit: "g"},
		{ID: "much-flour", Quantity: 500, Unit: "g"},
		{ID: "almost-no-milk", Quantity: 0.5, Unit: "l"},
		{ID: "expires-today", Quantity: 5, Unit: "kg", ExpiryDate: date(2026, 3, 1)},
		{ID: "expires-in-7", Quantity: 5, Unit: "kg", ExpiryDate: date(2026, 3, 8)},
		{ID: "expires-in-8", Quantity: 5, Unit: "kg", ExpiryDate: date(2026, 3, 9)},
		{ID: "expired", Quantity: 5, Unit: "kg", ExpiryDate: date(2026, 2, 28)},
	}
	r, c := &RepoMock{}, &CacheMock{}
	c.On("Get", mock.Anything, "inventory:owner", mock.Anything).Return(false, nil).Once()
	r.On("ListInventory", mock.Anything, "owner").Return(items, nil).Once()
	c.On("Set", mock.Anything, "inventory:owner", items, time.Minute).Return(nil).Once()

	svc := newService(r, c)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC) }

	alerts, err := svc.Alerts(context.Background(), "owner")
	require.NoError(t, err)

	ids := func(list []*models.InventoryItem) []string {
		out := make([]string, 0, len(list))
		for _, i := range list {
			out = append(out, i.ID)
		}
		return out
	}
	assert.Equal(t, []string{"few-pcs", "little-flour", "almost-no-milk"}, ids(alerts.LowStock))
	assert.Equal(t, []string{"expires-today", "expires-in-7"}, ids(alerts.ExpiringSoon))
}
