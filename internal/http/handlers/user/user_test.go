package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/stockmate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stockmate/internal/lib/jwt"
	"github.com/magabrotheeeer/stockmate/internal/lib/validation"
	"github.com/magabrotheeeer/stockmate/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, callerID, id string) (*models.User, error) {
	args := m.Called(ctx, callerID, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, callerID, id string, req models.UserUpdateRequest) (*models.User, error) {
	args := m.Called(ctx, callerID, id, req)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, callerID, id string) error {
	return m.Called(ctx, callerID, id).Error(0)
}

func (m *MockService) Report(ctx context.Context, callerID, id string) (*models.ActivityReport, error) {
	args := m.Called(ctx, callerID, id)
	rep, _ := args.Get(0).(*models.ActivityReport)
	return rep, args.Error(1)
}

type MockPasswords struct {
	mock.Mock
}

func (m *MockPasswords) ChangePassword(ctx context.Context, userID string, req models.PasswordChangeRequest) (*models.AuthResult, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*models.AuthResult)
	return res, args.Error(1)
}

func newRouter(svc *MockService, pw *MockPasswords, callerID string) http.Handler {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, pw, validation.New())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			claims := &jwt.Claims{RegisteredClaims: jwtlib.RegisteredClaims{Subject: callerID}}
			next.ServeHTTP(w, req.WithContext(middlewarectx.WithUser(req.Context(), claims)))
		})
	})
	r.Get("/api/user/{id}", h.Get)
	r.Put("/api/user/{id}", h.Update)
	r.Delete("/api/user/{id}", h.Delete)
	r.Get("/api/user/{id}/report", h.Report)
	r.Put("/api/user/{id}/password", h.ChangePassword)
	return r
}

func do(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, url, strings.NewReader(body)))
	return rr
}

func TestOtherUserIsNotFound(t *testing.T) {
	caller := uuid.NewString()
	other := uuid.NewString()
	notFound := fmt.Errorf("user.Get: %w", models.ErrNotFound)

	svc := new(MockService)
	svc.On("Get", mock.Anything, caller, other).Return(nil, notFound)
	svc.On("Update", mock.Anything, caller, other, mock.Anything).Return(nil, notFound)
	svc.On("Delete", mock.Anything, caller, other).Return(notFound)
	svc.On("Report", mock.Anything, caller, other).Return(nil, notFound)
	pw := new(MockPasswords)
	router := newRouter(svc, pw, caller)

	for _, tc := range []struct{ method, url, body string }{
		{http.MethodGet, "/api/user/" + other, ""},
		{http.MethodPut, "/api/user/" + other, `{"name":"Eve"}`},
		{http.MethodDelete, "/api/user/" + other, ""},
		{http.MethodGet, "/api/user/" + other + "/report", ""},
		{http.MethodPut, "/api/user/" + other + "/password", `{"currentPassword":"a","newPassword":"secret2"}`},
	} {
		rr := do(router, tc.method, tc.url, tc.body)
		assert.Equal(t, http.StatusNotFound, rr.Code, tc.method+" "+tc.url)
		assert.JSONEq(t, `{"status":"Error","error":"not found"}`, rr.Body.String())
	}
	pw.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate(t *testing.T) {
	caller := uuid.NewString()

	t.Run("некорректная дата рождения", func(t *testing.T) {
		svc := new(MockService)
		rr := do(newRouter(svc, new(MockPasswords), caller), http.MethodPut, "/api/user/"+caller, `{"dob":"01/02/1990"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "field dob must be a date in format YYYY-MM-DD")
	})

	t.Run("занятый email", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Update", mock.Anything, caller, caller, mock.Anything).
			Return(nil, fmt.Errorf("repository.UpdateUser: %w", models.ErrEmailTaken))
		rr := do(newRouter(svc, new(MockPasswords), caller), http.MethodPut, "/api/user/"+caller, `{"email":"b@example.com"}`)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("успех", func(t *testing.T) {
		svc := new(MockService)
		name := "Ann B"
		svc.On("Update", mock.Anything, caller, caller, models.UserUpdateRequest{Name: &name}).
			Return(&models.User{ID: caller, Name: name, PasswordHash: "$2a$10$hash"}, nil)
		rr := do(newRouter(svc, new(MockPasswords), caller), http.MethodPut, "/api/user/"+caller, `{"name":"Ann B"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name":"Ann B"`)
		assert.NotContains(t, rr.Body.String(), "$2a$10$hash")
	})
}

func TestChangePassword(t *testing.T) {
	caller := uuid.NewString()
	req := models.PasswordChangeRequest{CurrentPassword: "secret1", NewPassword: "secret2"}

	t.Run("неверный текущий пароль", func(t *testing.T) {
		pw := new(MockPasswords)
		pw.On("ChangePassword", mock.Anything, caller, req).
			Return(nil, fmt.Errorf("auth.ChangePassword: %w: current password is incorrect", models.ErrValidation))
		rr := do(newRouter(new(MockService), pw, caller), http.MethodPut, "/api/user/"+caller+"/password",
			`{"currentPassword":"secret1","newPassword":"secret2"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"validation failed: current password is incorrect"}`, rr.Body.String())
	})

	t.Run("новый пароль совпадает со старым", func(t *testing.T) {
		pw := new(MockPasswords)
		rr := do(newRouter(new(MockService), pw, caller), http.MethodPut, "/api/user/"+caller+"/password",
			`{"currentPassword":"secret1","newPassword":"secret1"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "field newPassword must differ from CurrentPassword")
	})

	t.Run("успех", func(t *testing.T) {
		pw := new(MockPasswords)
		pw.On("ChangePassword", mock.Anything, caller, req).
			Return(&models.AuthResult{Token: "new-token", User: &models.User{ID: caller}}, nil)
		rr := do(newRouter(new(MockService), pw, caller), http.MethodPut, "/api/user/"+caller+"/password",
			`{"currentPassword":"secret1","newPassword":"secret2"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"token":"new-token"`)
	})
}

func TestDelete_OK(t *testing.T) {
	caller := uuid.NewString()
	svc := new(MockService)
	svc.On("Delete", mock.Anything, caller, caller).Return(nil)

	rr := do(newRouter(svc, new(MockPasswords), caller), http.MethodDelete, "/api/user/"+caller, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"message":"User deleted successfully"}}`, rr.Body.String())
}
