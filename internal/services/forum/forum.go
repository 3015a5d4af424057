// Package services реализует форум сообщества: ленту постов, лайки и комментарии.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

// FeedLimit максимальное число постов в ленте
const FeedLimit = 50

// ErrInvalidParent родительский комментарий не найден среди комментариев поста
var ErrInvalidParent = errors.New("parent comment does not belong to post")

// PostRepository определяет методы для работы с постами в хранилище.
type PostRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.PostWithAuthor, error)
	FindByID(ctx context.Context, id string) (*models.ForumPost, error)
	Create(ctx context.Context, post models.ForumPost) (*models.PostWithAuthor, error)
	Modify(ctx context.Context, id string, fn func(*models.ForumPost) error) (*models.ForumPost, error)
}

// CommentRepository определяет методы для работы с комментариями в хранилище.
type CommentRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.CommentWithAuthor, error)
	FindByID(ctx context.Context, id string) (*models.ForumComment, error)
	Create(ctx context.Context, c models.ForumComment) (*models.ForumComment, error)
}

// Filter параметры ленты
type Filter struct {
	Search   string
	Category string
}

// PostInput данные нового поста
type PostInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// CommentInput данные нового комментария
type CommentInput struct {
	Content       string
	ParentComment string
}

type ForumService struct {
	posts    PostRepository
	comments CommentRepository
	log      *slog.Logger
}

// NewForumService создает новый экземпляр ForumService.
func NewForumService(posts PostRepository, comments CommentRepository, log *slog.Logger) *ForumService {
	return &ForumService{
		posts:    posts,
		comments: comments,
		log:      log,
	}
}

// List возвращает ленту: поиск по title, content и tags, новые сверху, не больше FeedLimit.
func (s *ForumService) List(ctx context.Context, f Filter) ([]models.PostWithAuthor, error) {
	const op = "services.forum.List"

	var parts []query.Query
	if f.Search != "" {
		parts = append(parts, query.Search(f.Search, "title", "content", "tags"))
	}
	if f.Category != "" {
		parts = append(parts, query.Equals("category", f.Category))
	}
	posts, err := s.posts.Find(ctx, query.And(parts...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slices.SortStableFunc(posts, func(a, b models.PostWithAuthor) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(posts) > FeedLimit {
		posts = posts[:FeedLimit]
	}
	return posts, nil
}

// Create публикует пост от имени authorID.
func (s *ForumService) Create(ctx context.Context, authorID string, in PostInput) (*models.PostWithAuthor, error) {
	const op = "services.forum.Create"

	post, err := s.posts.Create(ctx, models.ForumPost{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Tags:     in.Tags,
		Author:   authorID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("post created", slog.String("post_id", post.ID), slog.String("author", authorID))
	return post, nil
}

// ToggleLike ставит или снимает лайк userID. Возвращает, стоит ли лайк после
// переключения, и итоговое число лайков.
func (s *ForumService) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	const op = "services.forum.ToggleLike"

	var liked bool
	post, err := s.posts.Modify(ctx, postID, func(p *models.ForumPost) error {
		p.Likes, liked = models.ToggleLike(p.Likes, userID)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}
	return liked, len(post.Likes), nil
}

// Comment добавляет комментарий к посту и дописывает его id в список комментариев поста.
func (s *ForumService) Comment(ctx context.Context, postID, authorID string, in CommentInput) (*models.CommentWithAuthor, error) {
	const op = "services.forum.Comment"

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if in.ParentComment != "" {
		parent, err := s.comments.FindByID(ctx, in.ParentComment)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidParent
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if parent.Post != postID {
			return nil, ErrInvalidParent
		}
	}

	created, err := s.comments.Create(ctx, models.ForumComment{
		Content:       in.Content,
		Author:        authorID,
		Post:          postID,
		ParentComment: in.ParentComment,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.posts.Modify(ctx, postID, func(p *models.ForumPost) error {
		p.Comments = append(p.Comments, created.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	withAuthor, err := s.comments.Find(ctx, query.Equals("id", created.ID))
	if err != nil || len(withAuthor) == 0 {
		return &models.CommentWithAuthor{ForumComment: *created, Author: models.Author{ID: authorID}}, nil
	}
	return &withAuthor[0], nil
}

// Comments возвращает комментарии поста, старые сверху.
func (s *ForumService) Comments(ctx context.Context, postID string) ([]models.CommentWithAuthor, error) {
	const op = "services.forum.Comments"

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	comments, err := s.comments.Find(ctx, query.Equals("post", postID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	slices.SortStableFunc(comments, func(a, b models.CommentWithAuthor) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return comments, nil
}
