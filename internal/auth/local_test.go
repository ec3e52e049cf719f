package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/attenda/attenda/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	users := []models.User{
		{
			ID: 1, Active: true, Username: "alice", Email: "alice@example.com",
			Password: models.HashPassword("correct-horse"),
		},
		{
			ID: 2, Active: false, Username: "bob", Email: "bob@example.com",
			Password: models.HashPassword("correct-horse"),
		},
	}
	require.NoError(t, db.Create(&users).Error)

	return db
}

func TestAuthenticate(t *testing.T) {
	provider := NewLocalProvider(setupTestDB(t))

	t.Run("valid credentials", func(t *testing.T) {
		user, err := provider.Authenticate("alice", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := provider.Authenticate("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := provider.Authenticate("nobody", "correct-horse")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("disabled account", func(t *testing.T) {
		_, err := provider.Authenticate("bob", "correct-horse")
		assert.ErrorIs(t, err, ErrUserAccountDisabled)
	})
}

func TestChangePassword(t *testing.T) {
	provider := NewLocalProvider(setupTestDB(t))

	t.Run("wrong old password", func(t *testing.T) {
		err := provider.ChangePassword(1, "wrong", "new-password")
		assert.ErrorIs(t, err, ErrInvalidOldPassword)
	})

	t.Run("rotates the password", func(t *testing.T) {
		require.NoError(t, provider.ChangePassword(1, "correct-horse", "new-password"))

		_, err := provider.Authenticate("alice", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidPassword)

		user, err := provider.Authenticate("alice", "new-password")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), user.ID)
	})
}
