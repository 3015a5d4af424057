package commentcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/response"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	forumservice "github.com/magabrotheeeer/study-tools-hub/internal/services/forum"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Comment(ctx context.Context, postID, authorID string, in forumservice.CommentInput) (*models.CommentWithAuthor, error) {
	args := m.Called(ctx, postID, authorID, in)
	c, _ := args.Get(0).(*models.CommentWithAuthor)
	return c, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCommentCreateHandler(t *testing.T) {
	reply := forumservice.CommentInput{Content: "Agreed", ParentComment: "c1"}

	tests := []struct {
		name      string
		body      string
		setupMock func(m *ServiceMock)
		wantCode  int
		wantError string
	}{
		{
			name: "reply created",
			body: `{"content":"Agreed","parentComment":"c1"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Comment", mock.Anything, "p1", "u1", reply).Return(&models.CommentWithAuthor{
					ForumComment: models.ForumComment{ID: "c2", Post: "p1", ParentComment: "c1"},
					Author:       models.Author{ID: "u1", Name: "Riya"},
				}, nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "empty content",
			body:      `{"content":""}`,
			setupMock: func(*ServiceMock) {},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field Content is a required field",
		},
		{
			name: "post not found",
			body: `{"content":"hello"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Comment", mock.Anything, "p1", "u1", forumservice.CommentInput{Content: "hello"}).
					Return(nil, fmt.Errorf("x: %w", repository.ErrNotFound)).Once()
			},
			wantCode:  http.StatusNotFound,
			wantError: "Post not found",
		},
		{
			name: "parent from another post",
			body: `{"content":"Agreed","parentComment":"c1"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Comment", mock.Anything, "p1", "u1", reply).Return(nil, forumservice.ErrInvalidParent).Once()
			},
			wantCode:  http.StatusBadRequest,
			wantError: "Parent comment not found",
		},
		{
			name: "store failure",
			body: `{"content":"hello"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Comment", mock.Anything, "p1", "u1", mock.Anything).Return(nil, errors.New("io")).Once()
			},
			wantCode:  http.StatusInternalServerError,
			wantError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Post("/community/posts/{id}/comments", New(newNoopLogger(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPost, "/community/posts/p1/comments", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantError, resp.Error)
			svc.AssertExpectations(t)
		})
	}
}
