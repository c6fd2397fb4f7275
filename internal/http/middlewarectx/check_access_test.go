package middlewarectx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cardlink/internal/access"
)

// MockEvaluator реализует интерфейс Evaluator.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, userUID string) (*access.Info, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*access.Info), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAccessMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		userUID    string
		setupMock  func(*MockEvaluator)
		wantStatus int
		wantNext   bool
	}{
		{
			name:    "действующий доступ пропускается дальше",
			userUID: "uid-1",
			setupMock: func(m *MockEvaluator) {
				m.On("Evaluate", mock.Anything, "uid-1").
					Return(&access.Info{HasAccess: true, Status: "active"}, nil)
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:    "истекший доступ запрещается",
			userUID: "uid-1",
			setupMock: func(m *MockEvaluator) {
				m.On("Evaluate", mock.Anything, "uid-1").
					Return(&access.Info{HasAccess: false, Status: "expired"}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "нет идентификации пользователя",
			userUID:    "",
			setupMock:  func(_ *MockEvaluator) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "ошибка вычисления доступа",
			userUID: "uid-1",
			setupMock: func(m *MockEvaluator) {
				m.On("Evaluate", mock.Anything, "uid-1").
					Return(nil, errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := new(MockEvaluator)
			tt.setupMock(evaluator)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := AccessMiddleware(evaluator, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/cards", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, tt.userUID))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			evaluator.AssertExpectations(t)
		})
	}
}
