package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/testutil"
)

func TestCommentRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	comment := &model.Comment{
		UserID:  user.ID,
		PostID:  post.ID,
		Content: "This is a test comment",
	}

	err := repo.Create(comment)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)

	_, err := repo.GetByID(99999)
	assert.Error(t, err)
}

func TestCommentRepository_GetByIDWithUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db, testutil.WithUsername("commentuser"))
	post := testutil.TestPost(t, db, user.ID)
	created := testutil.TestComment(t, db, user.ID, post.ID, "Test comment")

	found, err := repo.GetByIDWithUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.NotNil(t, found.User)
	assert.Equal(t, "commentuser", found.User.Username)
}

func TestCommentRepository_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, post.ID, "To be deleted")

	err := repo.SoftDelete(comment.ID)
	require.NoError(t, err)

	// 行仍在，仅标记删除
	found, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDeleted)
}

func TestCommentRepository_ListByPost_ExcludesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	c1 := testutil.TestComment(t, db, user.ID, post.ID, "First")
	c2 := testutil.TestComment(t, db, user.ID, post.ID, "Second")
	deleted := testutil.TestComment(t, db, user.ID, post.ID, "Deleted")
	require.NoError(t, repo.SoftDelete(deleted.ID))

	comments, err := repo.ListByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	// created_at 升序
	assert.Equal(t, c1.ID, comments[0].ID)
	assert.Equal(t, c2.ID, comments[1].ID)
}

func TestCommentRepository_ListTopLevelByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	top := testutil.TestComment(t, db, user.ID, post.ID, "Top level")
	testutil.TestReply(t, db, user.ID, post.ID, top.ID, "Reply")

	comments, err := repo.ListTopLevelByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, top.ID, comments[0].ID)
	assert.Nil(t, comments[0].ParentID)
}

func TestCommentRepository_ListRepliesByParentID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	parent := testutil.TestComment(t, db, user.ID, post.ID, "Parent")
	r1 := testutil.TestReply(t, db, user.ID, post.ID, parent.ID, "Reply 1")
	r2 := testutil.TestReply(t, db, user.ID, post.ID, parent.ID, "Reply 2")
	deleted := testutil.TestReply(t, db, user.ID, post.ID, parent.ID, "Deleted reply")
	require.NoError(t, repo.SoftDelete(deleted.ID))

	replies, err := repo.ListRepliesByParentID(parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, r1.ID, replies[0].ID)
	assert.Equal(t, r2.ID, replies[1].ID)
}

func TestCommentRepository_CountActiveByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	testutil.TestComment(t, db, user.ID, post.ID, "One")
	deleted := testutil.TestComment(t, db, user.ID, post.ID, "Two")
	require.NoError(t, repo.SoftDelete(deleted.ID))

	count, err := repo.CountActiveByPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCommentRepository_PurgeSoftDeletedBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	// 无引用的软删评论应被清除
	purgeable := testutil.TestComment(t, db, user.ID, post.ID, "Purgeable")
	require.NoError(t, repo.SoftDelete(purgeable.ID))

	// 被未删子评论引用的软删父评论应保留
	parent := testutil.TestComment(t, db, user.ID, post.ID, "Deleted parent")
	testutil.TestReply(t, db, user.ID, post.ID, parent.ID, "Live reply")
	require.NoError(t, repo.SoftDelete(parent.ID))

	purged, err := repo.PurgeSoftDeletedBefore(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.GetByID(purgeable.ID)
	assert.Error(t, err)

	kept, err := repo.GetByID(parent.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsDeleted)
}

func TestCommentRepository_CountSoftDeletedBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	deleted := testutil.TestComment(t, db, user.ID, post.ID, "Deleted")
	require.NoError(t, repo.SoftDelete(deleted.ID))
	testutil.TestComment(t, db, user.ID, post.ID, "Live")

	count, err := repo.CountSoftDeletedBefore(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 截止时间早于删除时间则不计
	count, err = repo.CountSoftDeletedBefore(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
