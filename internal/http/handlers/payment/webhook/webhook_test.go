package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cardlink/internal/models"
	paymentservice "github.com/magabrotheeeer/cardlink/internal/services/payment"
)

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessNotification(ctx context.Context, notif models.PaymentNotification) (paymentservice.Outcome, error) {
	args := m.Called(ctx, notif)
	return args.Get(0).(paymentservice.Outcome), args.Error(1)
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "примененное уведомление подтверждается",
			body: `{"type":"payment","data":{"id":"200"}}`,
			setupMock: func(m *MockService) {
				m.On("ProcessNotification", mock.Anything, mock.MatchedBy(func(n models.PaymentNotification) bool {
					return n.Type == "payment" && n.Data.ID == "200"
				})).Return(paymentservice.OutcomeApplied, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"received":true`,
		},
		{
			name: "проигнорированное уведомление тоже подтверждается",
			body: `{"type":"merchant_order","data":{"id":"300"}}`,
			setupMock: func(m *MockService) {
				m.On("ProcessNotification", mock.Anything, mock.Anything).
					Return(paymentservice.OutcomeIgnored, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"received":true`,
		},
		{
			name: "отклоненное уведомление подтверждается без повторной доставки",
			body: `{"type":"payment","data":{"id":"400"}}`,
			setupMock: func(m *MockService) {
				m.On("ProcessNotification", mock.Anything, mock.Anything).
					Return(paymentservice.OutcomeRejected, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"received":true`,
		},
		{
			name: "ошибка сервиса возвращает 500 для повторной доставки",
			body: `{"type":"payment","data":{"id":"500"}}`,
			setupMock: func(m *MockService) {
				m.On("ProcessNotification", mock.Anything, mock.Anything).
					Return(paymentservice.Outcome(""), errors.New("provider unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/billing/webhook", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
