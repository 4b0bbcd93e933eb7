package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/coinquest-app/quest_api/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PendingOperation{}, &model.Parent{}))
	return db
}

func TestRetryRepository(t *testing.T) {
	repo := NewRetryRepository(testDB(t))

	patch := json.RawMessage(`{"unit_stage_data":{"unit01":{"maingame":{"level":2}}}}`)

	t.Run("enqueue and count", func(t *testing.T) {
		op, err := repo.Enqueue("parent-1", "child-1", "level_advanced", patch)
		require.NoError(t, err)
		require.NotEmpty(t, op.ID)

		n, err := repo.Count()
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("list preserves enqueue order", func(t *testing.T) {
		// Force distinct timestamps so ordering is deterministic.
		second, err := repo.Enqueue("parent-1", "child-1", "quiz_completed", patch)
		require.NoError(t, err)
		require.NoError(t, repo.DB().Model(second).Update("enqueued_at", time.Now().Add(time.Second)).Error)

		ops, err := repo.ListPending(10)
		require.NoError(t, err)
		require.Len(t, ops, 2)
		require.Equal(t, "level_advanced", ops[0].Kind)
		require.Equal(t, "quiz_completed", ops[1].Kind)
	})

	t.Run("mark failed bumps attempts and keeps the op", func(t *testing.T) {
		ops, err := repo.ListPending(1)
		require.NoError(t, err)

		require.NoError(t, repo.MarkFailed(ops[0].ID, "store unreachable"))
		require.NoError(t, repo.MarkFailed(ops[0].ID, "store unreachable"))

		var reloaded model.PendingOperation
		require.NoError(t, repo.DB().Where("id = ?", ops[0].ID).First(&reloaded).Error)
		require.Equal(t, 2, reloaded.Attempts)
		require.Equal(t, "store unreachable", reloaded.LastError)
	})

	t.Run("delete removes the op", func(t *testing.T) {
		ops, err := repo.ListPending(10)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ops[0].ID))

		n, err := repo.Count()
		require.NoError(t, err)
		require.EqualValues(t, len(ops)-1, n)
	})
}

func TestParentRepository(t *testing.T) {
	repo := NewParentRepository(testDB(t))

	t.Run("create and fetch", func(t *testing.T) {
		parent, err := repo.CreateParent("jane@example.com", "janedoe", "hash")
		require.NoError(t, err)

		byEmail, err := repo.GetParentByEmailOrUsername("jane@example.com")
		require.NoError(t, err)
		require.Equal(t, parent.ID, byEmail.ID)

		byUsername, err := repo.GetParentByEmailOrUsername("janedoe")
		require.NoError(t, err)
		require.Equal(t, parent.ID, byUsername.ID)
	})

	t.Run("availability checks", func(t *testing.T) {
		ok, err := repo.IsEmailAvailable("jane@example.com")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = repo.IsUsernameAvailable("someone-else")
		require.NoError(t, err)
		require.True(t, ok)
	})
}
