package repository

import (
	"context"
	"fmt"
	"maps"

	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// Users — фасад коллекции users.
type Users struct {
	c *collection[models.User]
}

// FindOne возвращает первого пользователя, подходящего под фильтр.
func (u *Users) FindOne(ctx context.Context, q query.Query) (*models.User, error) {
	const op = "repository.Users.FindOne"
	user, err := u.c.findOne(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// FindByID возвращает пользователя по id.
func (u *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	const op = "repository.Users.FindByID"
	user, err := u.c.findByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// FindByEmail возвращает пользователя по email.
func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.Users.FindByEmail"
	user, err := u.c.findOne(ctx, query.Equals("email", email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Find возвращает всех пользователей, подходящих под фильтр, в порядке хранения.
func (u *Users) Find(ctx context.Context, q query.Query) ([]models.User, error) {
	const op = "repository.Users.Find"
	users, err := u.c.find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// HasAdmin сообщает, есть ли хотя бы один пользователь с ролью ADMIN.
func (u *Users) HasAdmin(ctx context.Context) (bool, error) {
	const op = "repository.Users.HasAdmin"
	admins, err := u.c.find(ctx, query.Equals("role", models.RoleAdmin))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return len(admins) > 0, nil
}

// Create сохраняет нового пользователя. Уникальность email здесь не проверяется.
func (u *Users) Create(ctx context.Context, user models.User) (*models.User, error) {
	const op = "repository.Users.Create"
	created, err := u.c.insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created[0], nil
}

// FindByIDAndUpdate накладывает заданные поля patch на пользователя и возвращает результат.
func (u *Users) FindByIDAndUpdate(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	const op = "repository.Users.FindByIDAndUpdate"
	fields, err := encode(patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := u.c.update(ctx, id, func(r filedb.Record) (filedb.Record, error) {
		maps.Copy(r, fields)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Modify применяет fn к пользователю под блокировкой коллекции.
// Ошибка fn отменяет изменение и возвращается вызывающему.
func (u *Users) Modify(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	const op = "repository.Users.Modify"
	user, err := u.c.modify(ctx, id, fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// names возвращает отображение id -> имя для проекций авторов.
func (u *Users) names(ctx context.Context) (map[string]string, error) {
	users, err := u.c.find(ctx, query.All())
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(users))
	for _, user := range users {
		out[user.ID] = user.Name
	}
	return out, nil
}

func author(names map[string]string, id string) models.Author {
	if name, ok := names[id]; ok {
		return models.Author{ID: id, Name: name}
	}
	return models.Author{ID: id, Name: models.UnknownAuthorName}
}
