package list

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

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	toolsservice "github.com/magabrotheeeer/study-tools-hub/internal/services/tools"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, f toolsservice.Filter) ([]models.Tool, error) {
	args := m.Called(ctx, f)
	tools, _ := args.Get(0).([]models.Tool)
	return tools, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestListHandler(t *testing.T) {
	t.Run("passes query parameters as filter", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, toolsservice.Filter{Search: "notes", BestFor: "NEET", Platform: "WEB", Category: "NOTE_TAKING"}).
			Return([]models.Tool{{ID: "t1", Name: "Notion"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tools?search=notes&bestFor=NEET&platform=WEB&category=NOTE_TAKING", nil)
		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Status string        `json:"status"`
			Data   []models.Tool `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got.Status)
		require.Len(t, got.Data, 1)
		assert.Equal(t, "Notion", got.Data[0].Name)
		svc.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, toolsservice.Filter{}).Return(nil, errors.New("corrupt")).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
