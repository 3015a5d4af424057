package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// Comments — фасад коллекции forum-comments.
type Comments struct {
	c     *collection[models.ForumComment]
	users *collection[models.User]
}

// Find возвращает комментарии, подходящие под фильтр, с проекцией автора.
func (c *Comments) Find(ctx context.Context, q query.Query) ([]models.CommentWithAuthor, error) {
	const op = "repository.Comments.Find"
	comments, err := c.c.find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	names, err := (&Users{c: c.users}).names(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]models.CommentWithAuthor, 0, len(comments))
	for _, cm := range comments {
		out = append(out, models.CommentWithAuthor{ForumComment: cm, Author: author(names, cm.Author)})
	}
	return out, nil
}

// FindByID возвращает комментарий по id.
func (c *Comments) FindByID(ctx context.Context, id string) (*models.ForumComment, error) {
	const op = "repository.Comments.FindByID"
	cm, err := c.c.findByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cm, nil
}

// Create сохраняет комментарий с пустым списком лайков.
func (c *Comments) Create(ctx context.Context, cm models.ForumComment) (*models.ForumComment, error) {
	const op = "repository.Comments.Create"
	cm.Likes = []string{}
	created, err := c.c.insert(ctx, cm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created[0], nil
}
