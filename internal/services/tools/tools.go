// Package services реализует каталог учебных инструментов: фильтрацию, сравнение
// и пополнение каталога. Полный список без фильтров кэшируется.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/slug"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

// CatalogCacheKey ключ кэша с полным списком инструментов
const CatalogCacheKey = "tools:all"

const (
	MinCompare = 2
	MaxCompare = 4
)

var ErrCompareCount = fmt.Errorf("compare requires between %d and %d tools", MinCompare, MaxCompare)

// ToolRepository определяет методы для работы с инструментами в хранилище.
type ToolRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Tool, error)
	FindByID(ctx context.Context, id string) (*models.Tool, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tool, error)
	Create(ctx context.Context, tool models.Tool) (*models.Tool, error)
	InsertMany(ctx context.Context, tools []models.Tool) ([]models.Tool, error)
	DeleteMany(ctx context.Context) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Filter параметры выборки каталога. Пустые поля не участвуют.
type Filter struct {
	Search   string
	BestFor  string
	Platform string
	Category string
}

func (f Filter) empty() bool {
	return f == Filter{}
}

// Query строит запрос к коллекции: поиск по name, description и features,
// bestFor и platforms по вхождению значения, category по равенству.
func (f Filter) Query() query.Query {
	var parts []query.Query
	if f.Search != "" {
		parts = append(parts, query.Search(f.Search, "name", "description", "features"))
	}
	if f.BestFor != "" {
		parts = append(parts, query.ArrayContainsAny("bestFor", f.BestFor))
	}
	if f.Platform != "" {
		parts = append(parts, query.ArrayContainsAny("platforms", f.Platform))
	}
	if f.Category != "" {
		parts = append(parts, query.Equals("category", f.Category))
	}
	return query.And(parts...)
}

// ToolService реализует бизнес-логику каталога, включая кеширование.
type ToolService struct {
	repo  ToolRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewToolService создает новый экземпляр ToolService.
func NewToolService(repo ToolRepository, cache Cache, ttl time.Duration, log *slog.Logger) *ToolService {
	return &ToolService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// List возвращает инструменты по фильтру в порядке хранения.
func (s *ToolService) List(ctx context.Context, f Filter) ([]models.Tool, error) {
	const op = "services.tools.List"

	if !f.empty() {
		tools, err := s.repo.Find(ctx, f.Query())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return tools, nil
	}

	var cached []models.Tool
	found, err := s.cache.Get(ctx, CatalogCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read catalog from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	tools, err := s.repo.Find(ctx, query.All())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, CatalogCacheKey, tools, s.ttl); err != nil {
		s.log.Warn("failed to cache catalog", sl.Err(err))
	}
	return tools, nil
}

// Get ищет инструмент сначала по id, затем по slug.
func (s *ToolService) Get(ctx context.Context, idOrSlug string) (*models.Tool, error) {
	const op = "services.tools.Get"

	tool, err := s.repo.FindByID(ctx, idOrSlug)
	if errors.Is(err, repository.ErrNotFound) {
		tool, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tool, nil
}

// Compare возвращает инструменты в порядке ids. Повторы не допускаются.
func (s *ToolService) Compare(ctx context.Context, ids []string) ([]models.Tool, error) {
	const op = "services.tools.Compare"

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) < MinCompare || len(unique) > MaxCompare {
		return nil, ErrCompareCount
	}

	out := make([]models.Tool, 0, len(unique))
	for _, id := range unique {
		tool, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *tool)
	}
	return out, nil
}

// Create добавляет инструмент, slug строится из имени.
func (s *ToolService) Create(ctx context.Context, tool models.Tool) (*models.Tool, error) {
	const op = "services.tools.Create"

	tool.Slug = slug.Make(tool.Name)
	created, err := s.repo.Create(ctx, withEmptyLists(tool))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return created, nil
}

// Reseed заменяет весь каталог на catalog и возвращает число добавленных инструментов.
func (s *ToolService) Reseed(ctx context.Context, catalog []models.Tool) (int, error) {
	const op = "services.tools.Reseed"

	prepared := make([]models.Tool, 0, len(catalog))
	for _, t := range catalog {
		t.Slug = slug.Make(t.Name)
		prepared = append(prepared, withEmptyLists(t))
	}

	deleted, err := s.repo.DeleteMany(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	inserted, err := s.repo.InsertMany(ctx, prepared)
	s.invalidate(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("catalog reseeded", slog.Int("deleted", deleted), slog.Int("inserted", len(inserted)))
	return len(inserted), nil
}

func (s *ToolService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, CatalogCacheKey); err != nil {
		s.log.Warn("failed to invalidate catalog cache", sl.Err(err))
	}
}

func withEmptyLists(t models.Tool) models.Tool {
	for _, l := range []*[]string{&t.Features, &t.Pros, &t.Cons, &t.Platforms, &t.BestFor} {
		if *l == nil {
			*l = []string{}
		}
	}
	return t
}
