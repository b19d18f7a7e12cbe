package repositories_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ypropel/backend/internal/app/migrations"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/config"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// openTestDB connects to TEST_DATABASE_URL and applies the embedded schema.
// The test is skipped when the variable is not set.
func openTestDB(t *testing.T) *repositories.Repositories {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := &config.Config{}
	cfg.Database.URL = url
	cfg.Database.MaxOpenConns = 4
	cfg.Database.MaxIdleConns = 1
	cfg.Database.ConnMaxLifetime = "5m"

	database, err := db.NewPostgresDB(cfg)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, migrations.NewMigrator(database, zerolog.Nop()).MigrateEmbedded(context.Background()))
	return repositories.NewRepositories(database)
}

func createUser(t *testing.T, repos *repositories.Repositories) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		Name:         "Integration",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, repos.UserRepository.Create(ctx, u))
	t.Cleanup(func() { _ = repos.UserRepository.Delete(context.Background(), u.ID) })
	return u
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	repos := openTestDB(t)
	u := createUser(t, repos)

	dup := &models.User{Name: "Again", Email: u.Email, PasswordHash: "x"}
	err := repos.UserRepository.Create(context.Background(), dup)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestPostgres_PostTogglesAndCascade(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()
	author := createUser(t, repos)
	reader := createUser(t, repos)

	post := &models.Post{UserID: author.ID, Content: "integration post"}
	require.NoError(t, repos.PostRepository.Create(ctx, post))

	liked, err := repos.ToggleRepository.Toggle(ctx, repositories.TablePostLikes, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repos.ToggleRepository.Count(ctx, repositories.TablePostLikes, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	liked, err = repos.ToggleRepository.Toggle(ctx, repositories.TablePostLikes, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	shared, err := repos.ToggleRepository.InsertOnce(ctx, repositories.TablePostShares, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, shared)
	shared, err = repos.ToggleRepository.InsertOnce(ctx, repositories.TablePostShares, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, shared)

	_, err = repos.PostRepository.Update(ctx, post.ID, map[string]any{"user_id": reader.ID})
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsToUpdate)

	updated, err := repos.PostRepository.Update(ctx, post.ID, map[string]any{"content": "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, repos.PostRepository.Delete(ctx, post.ID))
	_, err = repos.PostRepository.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
