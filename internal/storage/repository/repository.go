// Package repository реализует типизированные коллекции поверх filedb: пользователей,
// инструменты каталога, посты и комментарии форума.
//
// Каждая операция читает коллекцию целиком, фильтрует её в памяти через query.Match,
// а изменения записывает обратно через filedb.Store.Update. Идентификатор и отметки
// createdAt/updatedAt проставляет хранилище, а не вызывающий код.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// ErrNotFound возвращается, если записи с таким id (или по такому фильтру) нет.
var ErrNotFound = errors.New("record not found")

// TimeLayout — формат createdAt/updatedAt: ISO-8601 в UTC с миллисекундами.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Repository объединяет фасады всех коллекций.
type Repository struct {
	Users    *Users
	Tools    *Tools
	Posts    *Posts
	Comments *Comments
}

type options struct {
	now   func() time.Time
	newID func() string
}

// Option настраивает Repository.
type Option func(*options)

// WithClock подменяет источник времени для отметок createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов записей.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// New создаёт фасады коллекций поверх store.
func New(store *filedb.Store, opts ...Option) *Repository {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	users := &collection[models.User]{store: store, name: filedb.Users, opts: o}
	return &Repository{
		Users:    &Users{c: users},
		Tools:    &Tools{c: &collection[models.Tool]{store: store, name: filedb.Tools, opts: o}},
		Posts:    &Posts{c: &collection[models.ForumPost]{store: store, name: filedb.ForumPosts, opts: o}, users: users},
		Comments: &Comments{c: &collection[models.ForumComment]{store: store, name: filedb.ForumComments, opts: o}, users: users},
	}
}

// collection — общие операции над коллекцией с записями типа T.
type collection[T any] struct {
	store *filedb.Store
	name  filedb.Collection
	opts  options
}

func (c *collection[T]) stamp() string {
	return c.opts.now().UTC().Format(TimeLayout)
}

func (c *collection[T]) find(ctx context.Context, q query.Query) ([]T, error) {
	records, err := c.store.Read(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](query.Filter(records, q))
}

func (c *collection[T]) findOne(ctx context.Context, q query.Query) (*T, error) {
	records, err := c.store.Read(ctx, c.name)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if query.Match(r, q) {
			return decode[T](r)
		}
	}
	return nil, ErrNotFound
}

func (c *collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, query.Equals("id", id))
}

// insert кодирует docs в записи, выдаёт им новые id и отметки времени и дописывает в конец.
func (c *collection[T]) insert(ctx context.Context, docs ...T) ([]T, error) {
	fresh := make([]filedb.Record, 0, len(docs))
	for _, d := range docs {
		rec, err := encode(d)
		if err != nil {
			return nil, err
		}
		now := c.stamp()
		rec["id"] = c.opts.newID()
		rec["createdAt"] = now
		rec["updatedAt"] = now
		fresh = append(fresh, rec)
	}

	err := c.store.Update(ctx, c.name, func(records []filedb.Record) ([]filedb.Record, error) {
		return append(records, fresh...), nil
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[T](fresh)
}

// update находит запись по id, применяет к ней fn и проставляет updatedAt.
func (c *collection[T]) update(ctx context.Context, id string, fn func(filedb.Record) (filedb.Record, error)) (*T, error) {
	var updated filedb.Record
	err := c.store.Update(ctx, c.name, func(records []filedb.Record) ([]filedb.Record, error) {
		for i, r := range records {
			if !query.Match(r, query.Equals("id", id)) {
				continue
			}
			next, err := fn(maps.Clone(r))
			if err != nil {
				return nil, err
			}
			next["id"] = id
			next["updatedAt"] = c.stamp()
			records[i] = next
			updated = next
			return records, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return decode[T](updated)
}

// modify декодирует запись в T, передаёт её в fn и накладывает результат поверх исходной
// записи, так что поля вне T сохраняются.
func (c *collection[T]) modify(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	return c.update(ctx, id, func(r filedb.Record) (filedb.Record, error) {
		doc, err := decode[T](r)
		if err != nil {
			return nil, err
		}
		if err := fn(doc); err != nil {
			return nil, err
		}
		enc, err := encode(doc)
		if err != nil {
			return nil, err
		}
		created, hasCreated := r["createdAt"]
		maps.Copy(r, enc)
		if hasCreated {
			r["createdAt"] = created
		}
		return r, nil
	})
}

func (c *collection[T]) deleteAll(ctx context.Context) (int, error) {
	var deleted int
	err := c.store.Update(ctx, c.name, func(records []filedb.Record) ([]filedb.Record, error) {
		deleted = len(records)
		return []filedb.Record{}, nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func encode(v any) (filedb.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec filedb.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

func decode[T any](r filedb.Record) (*T, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &out, nil
}

func decodeAll[T any](records []filedb.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		v, err := decode[T](r)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
