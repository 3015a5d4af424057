package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// Posts — фасад коллекции forum-posts.
//
// Автор поста хранится как id пользователя и разворачивается в {id, name} при чтении.
// Коллекции users и forum-posts читаются независимо, проекция — снимок на момент чтения.
type Posts struct {
	c     *collection[models.ForumPost]
	users *collection[models.User]
}

// Find возвращает посты, подходящие под фильтр, с проекцией автора, в порядке хранения.
func (p *Posts) Find(ctx context.Context, q query.Query) ([]models.PostWithAuthor, error) {
	const op = "repository.Posts.Find"
	posts, err := p.c.find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	names, err := (&Users{c: p.users}).names(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]models.PostWithAuthor, 0, len(posts))
	for _, post := range posts {
		out = append(out, models.PostWithAuthor{ForumPost: post, Author: author(names, post.Author)})
	}
	return out, nil
}

// FindOne возвращает первый подходящий пост в хранимом виде.
func (p *Posts) FindOne(ctx context.Context, q query.Query) (*models.ForumPost, error) {
	const op = "repository.Posts.FindOne"
	post, err := p.c.findOne(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

// FindByID возвращает пост в хранимом виде (author — id пользователя).
func (p *Posts) FindByID(ctx context.Context, id string) (*models.ForumPost, error) {
	const op = "repository.Posts.FindByID"
	post, err := p.c.findByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

// Create сохраняет пост с пустыми likes и comments и возвращает его с проекцией автора.
func (p *Posts) Create(ctx context.Context, post models.ForumPost) (*models.PostWithAuthor, error) {
	const op = "repository.Posts.Create"
	post.Likes = []string{}
	post.Comments = []string{}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	created, err := p.c.insert(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	names, err := (&Users{c: p.users}).names(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.PostWithAuthor{ForumPost: created[0], Author: author(names, created[0].Author)}, nil
}

// Save записывает уже изменённый вызывающим кодом пост по его id.
// Между чтением поста и Save другой запрос может изменить его: последняя запись побеждает.
func (p *Posts) Save(ctx context.Context, post models.ForumPost) (*models.ForumPost, error) {
	const op = "repository.Posts.Save"
	fields, err := encode(post)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	saved, err := p.c.update(ctx, post.ID, func(r filedb.Record) (filedb.Record, error) {
		created, hasCreated := r["createdAt"]
		for k, v := range fields {
			r[k] = v
		}
		if hasCreated {
			r["createdAt"] = created
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// Modify применяет fn к посту под блокировкой коллекции, так что чтение и запись атомарны.
func (p *Posts) Modify(ctx context.Context, id string, fn func(*models.ForumPost) error) (*models.ForumPost, error) {
	const op = "repository.Posts.Modify"
	post, err := p.c.modify(ctx, id, fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}
