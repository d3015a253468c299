package merge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/velotech/storefront/internal/http/middlewarectx"
	"github.com/velotech/storefront/internal/models"
)

const productID = "3f1f8a8e-5b55-4f4a-9a67-2f0d7c1d2a3b"

// MockService реализует интерфейс merge.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Merge(ctx context.Context, userUID string, items []models.MergeItem) error {
	args := m.Called(ctx, userUID, items)
	return args.Error(0)
}

func (m *MockService) GetCart(ctx context.Context, userUID string) (*models.Cart, error) {
	args := m.Called(ctx, userUID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func TestMergeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	items := []models.MergeItem{{ProductID: productID, Quantity: 3}}

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное слияние корзин",
			requestBody: Request{Items: items},
			userUID:     "uid-1",
			setupMock: func(m *MockService) {
				m.On("Merge", mock.Anything, "uid-1", items).Return(nil)
				m.On("GetCart", mock.Anything, "uid-1").Return(&models.Cart{
					Items:      []models.CartItem{{ProductID: productID, Quantity: 5, ProductPrice: 10}},
					TotalItems: 5,
					TotalPrice: 50,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_items":5`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации строки корзины",
			requestBody:    Request{Items: []models.MergeItem{{ProductID: "", Quantity: 0}}},
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ProductID is a required field`,
		},
		{
			name:           "отсутствует авторизация",
			requestBody:    Request{Items: items},
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: Request{Items: items},
			userUID:     "uid-1",
			setupMock: func(m *MockService) {
				m.On("Merge", mock.Anything, "uid-1", items).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not merge carts"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/cart/merge", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
