// Package services выполняет начальное заполнение хранилища: учётную запись
// администратора и демонстрационный каталог инструментов.
package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/study-tools-hub/internal/config"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/password"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
)

// AdminCustomerID клиент платёжного провайдера, закреплённый за администратором
const AdminCustomerID = "cust_admin"

// adminAccessPeriod срок подписки администратора от момента создания
const adminAccessPeriod = 365 * 24 * time.Hour

//go:embed catalog.json
var catalogJSON []byte

// Catalog возвращает демонстрационный каталог инструментов.
func Catalog() ([]models.Tool, error) {
	const op = "services.bootstrap.Catalog"
	var tools []models.Tool
	if err := json.Unmarshal(catalogJSON, &tools); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tools, nil
}

type UserRepository interface {
	HasAdmin(ctx context.Context) (bool, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
}

type ToolRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Tool, error)
}

// CatalogReplacer заменяет каталог целиком.
type CatalogReplacer interface {
	Reseed(ctx context.Context, catalog []models.Tool) (int, error)
}

type Seeder struct {
	users   UserRepository
	tools   ToolRepository
	catalog CatalogReplacer
	admin   config.Admin
	now     func() time.Time
	log     *slog.Logger
}

// NewSeeder создает новый экземпляр Seeder.
func NewSeeder(users UserRepository, tools ToolRepository, catalog CatalogReplacer, admin config.Admin, log *slog.Logger) *Seeder {
	return &Seeder{
		users:   users,
		tools:   tools,
		catalog: catalog,
		admin:   admin,
		now:     time.Now,
		log:     log,
	}
}

// SeedAdmin создаёт администратора, если в хранилище нет ни одного пользователя с ролью ADMIN.
// Возвращает true, если учётная запись была создана.
func (s *Seeder) SeedAdmin(ctx context.Context) (bool, error) {
	const op = "services.bootstrap.SeedAdmin"

	exists, err := s.users.HasAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return false, nil
	}

	hash, err := password.GetHash(s.admin.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now().UTC()
	end := now.Add(adminAccessPeriod)
	admin, err := s.users.Create(ctx, models.User{
		Name:                s.admin.AdminName,
		Email:               s.admin.AdminEmail,
		PasswordHash:        hash,
		Role:                models.RoleAdmin,
		SubscriptionStatus:  models.StatusActive,
		PreparingFor:        models.ExamBoth,
		TrialStartDate:      now,
		SubscriptionEndDate: &end,
		BillingCustomerID:   AdminCustomerID,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin user created", slog.String("id", admin.ID), slog.String("email", admin.Email))
	return true, nil
}

// SeedCatalog заменяет каталог демонстрационным.
func (s *Seeder) SeedCatalog(ctx context.Context) (int, error) {
	const op = "services.bootstrap.SeedCatalog"

	tools, err := Catalog()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := s.catalog.Reseed(ctx, tools)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// SeedCatalogIfEmpty заполняет каталог, только если в нём нет ни одного инструмента.
func (s *Seeder) SeedCatalogIfEmpty(ctx context.Context) (int, error) {
	const op = "services.bootstrap.SeedCatalogIfEmpty"

	existing, err := s.tools.Find(ctx, query.All())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	return s.SeedCatalog(ctx)
}
