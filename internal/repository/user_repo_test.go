package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	hash := "hashed"
	email := "newuser@example.com"
	user := &model.User{
		Username:     "newuser",
		Email:        &email,
		PasswordHash: &hash,
	}

	err := repo.Create(user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	created := testutil.TestUser(t, db, testutil.WithEmail("lookup@example.com"))

	found, err := repo.GetByEmail("lookup@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByEmail("missing@example.com")
	assert.Error(t, err)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	created := testutil.TestUser(t, db, testutil.WithUsername("uniquename"))

	found, err := repo.GetByUsername("uniquename")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db, testutil.WithEmail("exists@example.com"))

	exists, err := repo.ExistsByEmail("exists@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("notexists@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	err := repo.UpdateFields(user.ID, map[string]interface{}{
		"bio":        "新的个人简介",
		"avatar_url": "https://example.com/avatar.png",
	})
	require.NoError(t, err)

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "新的个人简介", found.Bio)
	assert.Equal(t, "https://example.com/avatar.png", found.AvatarURL)
}

func TestUserRepository_FollowCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	require.NoError(t, repo.IncrementFollowingCount(user.ID))
	require.NoError(t, repo.IncrementFollowersCount(user.ID))
	require.NoError(t, repo.IncrementFollowersCount(user.ID))

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.FollowingCount)
	assert.Equal(t, 2, found.FollowersCount)

	require.NoError(t, repo.DecrementFollowingCount(user.ID))
	require.NoError(t, repo.DecrementFollowersCount(user.ID))

	found, err = repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.FollowingCount)
	assert.Equal(t, 1, found.FollowersCount)
}

func TestUserRepository_DecrementFollowCounts_FloorAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	// 计数已为 0 时继续递减不得变为负数
	require.NoError(t, repo.DecrementFollowingCount(user.ID))
	require.NoError(t, repo.DecrementFollowersCount(user.ID))

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.FollowingCount)
	assert.Equal(t, 0, found.FollowersCount)
}

func TestUserRepository_SetFollowCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithFollowCounts(100, 50))

	err := repo.SetFollowCounts(user.ID, 3, 7)
	require.NoError(t, err)

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.FollowingCount)
	assert.Equal(t, 7, found.FollowersCount)
}

func TestUserRepository_ListIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)

	ids, err := repo.ListIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{u1.ID, u2.ID}, ids)
}
