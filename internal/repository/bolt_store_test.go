package repository

import (
	"path/filepath"
	"testing"
	"time"

	interactionPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	userPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "trendmatrix.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltUserRepository(t *testing.T) {
	repo := NewBoltUserRepository(openTestStore(t), logger.Nop())

	user := &userPkg.User{Username: "ada"}
	require.NoError(t, repo.Create(user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("find by username", func(t *testing.T) {
		found, err := repo.FindByUsername("ada")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "ada", found.Username)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada", found.Username)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByUsername("grace")
		assert.ErrorIs(t, err, userPkg.ErrUserNotFound)

		_, err = repo.FindByID(uuid.New())
		assert.ErrorIs(t, err, userPkg.ErrUserNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		assert.Error(t, repo.Create(&userPkg.User{Username: "ada"}))
	})
}

func TestBoltUserRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trendmatrix.db")

	store, err := NewBoltStore(path)
	require.NoError(t, err)
	user := &userPkg.User{Username: "ada"}
	require.NoError(t, NewBoltUserRepository(store, logger.Nop()).Create(user))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())

	found, err := NewBoltUserRepository(reopened, logger.Nop()).FindByUsername("ada")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestBoltInteractionRepository(t *testing.T) {
	repo := NewBoltInteractionRepository(openTestStore(t), logger.Nop())
	userID := uuid.New()
	other := uuid.New()
	now := time.Now()

	record := func(user uuid.UUID, item string, action interactionPkg.Action, at time.Time) {
		t.Helper()
		require.NoError(t, repo.Create(&interactionPkg.Interaction{
			UserID:    user,
			ItemID:    item,
			Action:    action,
			CreatedAt: at,
		}))
	}

	record(userID, "1", interactionPkg.ActionViewed, now.Add(-48*time.Hour))
	record(userID, "2", interactionPkg.ActionLiked, now.Add(-47*time.Hour))
	record(other, "9", interactionPkg.ActionViewed, now.Add(-46*time.Hour))
	record(userID, "3", interactionPkg.ActionViewed, now.Add(-time.Minute))
	record(userID, "4", interactionPkg.ActionLiked, now)

	t.Run("history is most recent first", func(t *testing.T) {
		ids, err := repo.FindItemIDsByUser(userID, "", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "3", "2", "1"}, ids)
	})

	t.Run("action filter and limit", func(t *testing.T) {
		ids, err := repo.FindItemIDsByUser(userID, interactionPkg.ActionLiked, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"4"}, ids)
	})

	t.Run("unknown user", func(t *testing.T) {
		ids, err := repo.FindItemIDsByUser(uuid.New(), "", 0)
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})

	t.Run("prune old views keeps likes", func(t *testing.T) {
		deleted, err := repo.DeleteViewedBefore(now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		ids, err := repo.FindItemIDsByUser(userID, "", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "3", "2"}, ids)

		ids, err = repo.FindItemIDsByUser(other, "", 0)
		require.NoError(t, err)
		assert.Empty(t, ids)

		deleted, err = repo.DeleteViewedBefore(now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
