package user

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

	"github.com/magabrotheeeer/stockmate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CountOwned(ctx context.Context, userID string) (models.OwnedCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.OwnedCounts), args.Error(1)
}

type RevokerMock struct{ mock.Mock }

func (m *RevokerMock) RevokeUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

type fixture struct {
	svc     *Service
	repo    *RepoMock
	revoker *RevokerMock
	cache   *CacheMock
	pub     *PublisherMock
}

func newFixture() *fixture {
	f := &fixture{repo: &RepoMock{}, revoker: &RevokerMock{}, cache: &CacheMock{}, pub: &PublisherMock{}}
	f.svc = NewService(f.repo, f.revoker, f.cache, f.pub, slog.New(slog.NewTextHandler(io.Discard, nil)),
		func(id string) string { return "inventory:" + id },
		func(id string) string { return "shopping:" + id },
	)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC) }
	return f
}

func TestService_OtherUserIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	name := "Mallory"

	_, err := f.svc.Get(ctx, "caller", "victim")
	require.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.svc.Update(ctx, "caller", "victim", models.UserUpdateRequest{Name: &name})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, "caller", "victim"), models.ErrNotFound)
	_, err = f.svc.Report(ctx, "caller", "victim")
	require.ErrorIs(t, err, models.ErrNotFound)

	f.repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestService_Update(t *testing.T) {
	phone := "+100"
	dob := "1990-05-17"
	future := "2030-01-01"
	bad := "17.05.1990"

	tests := []struct {
		name    string
		req     models.UserUpdateRequest
		patch   *models.UserPatch
		wantErr error
	}{
		{
			name: "phone and dob",
			req:  models.UserUpdateRequest{Phone: &phone, DOB: &dob},
			patch: &models.UserPatch{Phone: &phone, DOB: func() *time.Time {
				d := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
				return &d
			}()},
		},
		{name: "future dob", req: models.UserUpdateRequest{DOB: &future}, wantErr: models.ErrValidation},
		{name: "bad dob", req: models.UserUpdateRequest{DOB: &bad}, wantErr: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.patch != nil {
				f.repo.On("UpdateUser", mock.Anything, "u-1", *tt.patch).Return(&models.User{ID: "u-1"}, nil).Once()
			}
			_, err := f.svc.Update(context.Background(), "u-1", "u-1", tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestService_Delete(t *testing.T) {
	f := newFixture()
	deleted := &models.User{ID: "u-1", Name: "Ann", Email: "ann@example.com"}
	f.repo.On("DeleteUser", mock.Anything, "u-1").Return(deleted, nil).Once()
	f.revoker.On("RevokeUser", mock.Anything, "u-1").Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, []string{"inventory:u-1", "shopping:u-1"}).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, rabbitmq.RoutingUserDeleted,
		rabbitmq.UserEvent{UserID: "u-1", Name: "Ann", Email: "ann@example.com"}).Return(errors.New("broker down")).Once()

	require.NoError(t, f.svc.Delete(context.Background(), "u-1", "u-1"))
	f.repo.AssertExpectations(t)
	f.revoker.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.pub.AssertExpectations(t)
}

func TestService_Delete_RevocationFailureKeepsAccount(t *testing.T) {
	f := newFixture()
	f.revoker.On("RevokeUser", mock.Anything, "u-1").Return(errors.New("redis down")).Once()

	err := f.svc.Delete(context.Background(), "u-1", "u-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	f.repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Delete_Missing(t *testing.T) {
	f := newFixture()
	f.revoker.On("RevokeUser", mock.Anything, "u-1").Return(nil).Once()
	f.repo.On("DeleteUser", mock.Anything, "u-1").Return(nil, models.ErrNotFound).Once()

	require.ErrorIs(t, f.svc.Delete(context.Background(), "u-1", "u-1"), models.ErrNotFound)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Report(t *testing.T) {
	f := newFixture()
	u := &models.User{
		ID:        "u-1",
		Name:      "Ann",
		Email:     "ann@example.com",
		Phone:     "+100",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	counts := models.OwnedCounts{InventoryItems: 4, ShoppingItems: 2, Recipes: 1}
	f.repo.On("GetUser", mock.Anything, "u-1").Return(u, nil).Once()
	f.repo.On("CountOwned", mock.Anything, "u-1").Return(counts, nil).Once()

	report, err := f.svc.Report(context.Background(), "u-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, 10, report.AccountAgeDays)
	assert.Equal(t, 60, report.ProfileCompletion)
	assert.Equal(t, counts, report.Owned)
	assert.Same(t, u, report.User)
}

func TestProfileCompletion(t *testing.T) {
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, profileCompletion(&models.User{}))
	assert.Equal(t, 40, profileCompletion(&models.User{Name: "a", Email: "b"}))
	assert.Equal(t, 100, profileCompletion(&models.User{Name: "a", Email: "b", Phone: "c", Address: "d", DOB: &dob}))
}
