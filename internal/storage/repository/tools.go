package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// Tools — фасад коллекции tools.
type Tools struct {
	c *collection[models.Tool]
}

// FindOne возвращает первый инструмент, подходящий под фильтр.
func (t *Tools) FindOne(ctx context.Context, q query.Query) (*models.Tool, error) {
	const op = "repository.Tools.FindOne"
	tool, err := t.c.findOne(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tool, nil
}

// FindByID возвращает инструмент по id.
func (t *Tools) FindByID(ctx context.Context, id string) (*models.Tool, error) {
	const op = "repository.Tools.FindByID"
	tool, err := t.c.findByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tool, nil
}

// FindBySlug возвращает инструмент по slug.
func (t *Tools) FindBySlug(ctx context.Context, slug string) (*models.Tool, error) {
	const op = "repository.Tools.FindBySlug"
	tool, err := t.c.findOne(ctx, query.Equals("slug", slug))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tool, nil
}

// Find возвращает инструменты, подходящие под фильтр.
func (t *Tools) Find(ctx context.Context, q query.Query) ([]models.Tool, error) {
	const op = "repository.Tools.Find"
	tools, err := t.c.find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tools, nil
}

// Create добавляет инструмент в каталог.
func (t *Tools) Create(ctx context.Context, tool models.Tool) (*models.Tool, error) {
	const op = "repository.Tools.Create"
	created, err := t.c.insert(ctx, tool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created[0], nil
}

// InsertMany добавляет пачку инструментов одной записью файла.
func (t *Tools) InsertMany(ctx context.Context, tools []models.Tool) ([]models.Tool, error) {
	const op = "repository.Tools.InsertMany"
	created, err := t.c.insert(ctx, tools...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// DeleteMany очищает каталог целиком и возвращает число удалённых записей.
func (t *Tools) DeleteMany(ctx context.Context) (int, error) {
	const op = "repository.Tools.DeleteMany"
	n, err := t.c.deleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
