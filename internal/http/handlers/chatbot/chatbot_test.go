package chatbot

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/stockmate/internal/lib/validation"
	chatbotservice "github.com/magabrotheeeer/stockmate/internal/services/chatbot"
)

func TestChatbotHandler(t *testing.T) {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), chatbotservice.NewService(), validation.New())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ответ",
			body:       `{"message":"hello"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","data":{"response":"You said: hello. This is a simulated chatbot response."}}`,
		},
		{
			name:       "пустое сообщение",
			body:       `{"message":""}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"field message is a required field"}`,
		},
		{
			name:       "некорректный JSON",
			body:       `hello`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chatbot", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
