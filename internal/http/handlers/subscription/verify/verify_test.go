package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Activate(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func serve(svc Service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscription/verify", bytes.NewBufferString(body))
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rec, req)
	return rec
}

func TestVerifyHandler(t *testing.T) {
	t.Run("activates with payment payload", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Activate", mock.Anything, "u1").Return(&models.User{ID: "u1", SubscriptionStatus: models.StatusActive}, nil).Once()

		rec := serve(svc, `{"paymentId":"pay_1","subscriptionId":"sub_mock_1","signature":"x"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data struct {
				Message string `json:"message"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Mock subscription verified successfully", got.Data.Message)
		svc.AssertExpectations(t)
	})

	t.Run("empty body is accepted", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Activate", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil).Once()

		assert.Equal(t, http.StatusOK, serve(svc, "").Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(ServiceMock)

		assert.Equal(t, http.StatusBadRequest, serve(svc, "{").Code)
		svc.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything)
	})

	t.Run("user deleted", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Activate", mock.Anything, "u1").Return(nil, repository.ErrNotFound).Once()

		assert.Equal(t, http.StatusUnauthorized, serve(svc, "{}").Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Activate", mock.Anything, "u1").Return(nil, errors.New("io")).Once()

		assert.Equal(t, http.StatusInternalServerError, serve(svc, "{}").Code)
	})
}
