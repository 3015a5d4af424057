package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-tools-hub/internal/cache"
	"github.com/magabrotheeeer/study-tools-hub/internal/config"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/password"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	services "github.com/magabrotheeeer/study-tools-hub/internal/services/bootstrap"
	toolsservice "github.com/magabrotheeeer/study-tools-hub/internal/services/tools"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/query"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

var defaultAdmin = config.Admin{
	AdminName:     "Admin User",
	AdminEmail:    "admin@studytoolshub.com",
	AdminPassword: "admin123",
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func setup(t *testing.T) (*services.Seeder, *repository.Repository) {
	t.Helper()
	store, err := filedb.New(t.TempDir(), filedb.AllCollections()...)
	require.NoError(t, err)
	repo := repository.New(store)
	tools := toolsservice.NewToolService(repo.Tools, cache.Nop{}, time.Minute, newNoopLogger())
	return services.NewSeeder(repo.Users, repo.Tools, tools, defaultAdmin, newNoopLogger()), repo
}

func TestSeedAdmin_CreatesOnce(t *testing.T) {
	seeder, repo := setup(t)
	ctx := context.Background()

	created, err := seeder.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = seeder.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := repo.Users.Find(ctx, query.Equals("role", models.RoleAdmin))
	require.NoError(t, err)
	require.Len(t, admins, 1)

	admin := admins[0]
	assert.Equal(t, "Admin User", admin.Name)
	assert.Equal(t, "admin@studytoolshub.com", admin.Email)
	assert.Equal(t, models.StatusActive, admin.SubscriptionStatus)
	assert.Equal(t, models.ExamBoth, admin.PreparingFor)
	assert.Equal(t, services.AdminCustomerID, admin.BillingCustomerID)
	require.NotNil(t, admin.SubscriptionEndDate)
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), *admin.SubscriptionEndDate, time.Minute)
	assert.NoError(t, password.CompareHash(admin.PasswordHash, "admin123"))
}

func TestSeedAdmin_SkipsWhenAdminExists(t *testing.T) {
	seeder, repo := setup(t)
	ctx := context.Background()

	_, err := repo.Users.Create(ctx, models.User{Name: "Other admin", Email: "root@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	created, err := seeder.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.Users.FindByEmail(ctx, "admin@studytoolshub.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalog_Embedded(t *testing.T) {
	tools, err := services.Catalog()
	require.NoError(t, err)
	require.Len(t, tools, 6)
	assert.Equal(t, "Physics Wallah", tools[0].Name)
	assert.Equal(t, "Wolfram Alpha", tools[5].Name)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Features, tool.Name)
		assert.NotEmpty(t, tool.BestFor, tool.Name)
	}
}

func TestSeedCatalog(t *testing.T) {
	seeder, repo := setup(t)
	ctx := context.Background()

	_, err := repo.Tools.Create(ctx, models.Tool{Name: "Leftover"})
	require.NoError(t, err)

	n, err := seeder.SeedCatalogIfEmpty(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = seeder.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = repo.Tools.FindBySlug(ctx, "leftover")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tool, err := repo.Tools.FindBySlug(ctx, "allen-test-my-prep")
	require.NoError(t, err)
	assert.Equal(t, "PRACTICE_TESTS", tool.Category)
}

func TestSeedCatalogIfEmpty_FillsEmptyCatalog(t *testing.T) {
	seeder, repo := setup(t)
	ctx := context.Background()

	n, err := seeder.SeedCatalogIfEmpty(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	all, err := repo.Tools.Find(ctx, query.All())
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
