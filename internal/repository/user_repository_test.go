package repository_test

import (
	"context"
	"errors"
	"testing"

	"go-gin-event-calendar/internal/model"
	"go-gin-event-calendar/internal/repository"
	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(db)

	t.Run("Success", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.User{
			Username: "alice",
			FullName: "Alice Martin",
			Email:    "alice@example.com",
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "Alice Martin", created.DisplayName())
		assert.NotZero(t, created.CreatedAt)
		assert.NotZero(t, created.UpdatedAt)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.User{Username: "alice", Email: "other@example.com"})

		require.Error(t, err)
		var verr *apperrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "username", verr.Field)
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(db)

	userID := createTestUser(t, "bob", "Bob Durand")

	t.Run("Success", func(t *testing.T) {
		found, err := repo.FindByID(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, found.ID)
		assert.Equal(t, "Bob Durand", found.FullName)
		assert.Equal(t, "bob@example.com", found.Email)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 99999)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(db)

	userID := createTestUser(t, "carol", "")

	t.Run("Success", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "carol")

		require.NoError(t, err)
		assert.Equal(t, userID, found.ID)
		// 沒有全名時顯示帳號名稱
		assert.Equal(t, "carol", found.DisplayName())
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
