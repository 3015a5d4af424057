package seed

import (
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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SeedCatalog(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSeedHandler(t *testing.T) {
	t.Run("reports count", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("SeedCatalog", mock.Anything).Return(6, nil).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/seed", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data struct {
				Message string `json:"message"`
				Count   int    `json:"count"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Sample tools seeded successfully", got.Data.Message)
		assert.Equal(t, 6, got.Data.Count)
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("SeedCatalog", mock.Anything).Return(0, errors.New("corrupt")).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/seed", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
