package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/model/dto"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/testutil"
)

func setupVoteService(t *testing.T) (*VoteService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	voteRepo := repository.NewVoteRepository(db)
	postRepo := repository.NewPostRepository(db)

	return NewVoteService(db, voteRepo, postRepo, &config.Config{}), db
}

func getPostCounts(t *testing.T, db *gorm.DB, postID int64) (up, down int) {
	t.Helper()

	post, err := repository.NewPostRepository(db).GetByID(postID)
	require.NoError(t, err)
	return post.UpvoteCount, post.DownvoteCount
}

func TestVoteService_Cast_FirstVote(t *testing.T) {
	service, db := setupVoteService(t)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	item, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeUpvote,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, model.VoteTypeUpvote, item.VoteType)

	up, down := getPostCounts(t, db, post.ID)
	assert.Equal(t, 1, up)
	assert.Equal(t, 0, down)
}

func TestVoteService_Cast_PostNotFound(t *testing.T) {
	service, db := setupVoteService(t)

	user := testutil.TestUser(t, db)

	_, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   99999,
		VoteType: model.VoteTypeUpvote,
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestVoteService_Cast_SameTypeIdempotent(t *testing.T) {
	service, db := setupVoteService(t)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	first, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeUpvote,
	})
	require.NoError(t, err)

	// 同型重复投票返回同一行，计数不再增长
	second, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeUpvote,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	up, _ := getPostCounts(t, db, post.ID)
	assert.Equal(t, 1, up)
}

func TestVoteService_Cast_FlipVote(t *testing.T) {
	service, db := setupVoteService(t)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	first, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeUpvote,
	})
	require.NoError(t, err)

	// 改票复用同一行，upvote 回落、downvote 增加
	flipped, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeDownvote,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, flipped.ID)
	assert.Equal(t, model.VoteTypeDownvote, flipped.VoteType)

	up, down := getPostCounts(t, db, post.ID)
	assert.Equal(t, 0, up)
	assert.Equal(t, 1, down)
}

func TestVoteService_Delete_Success(t *testing.T) {
	service, db := setupVoteService(t)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	item, err := service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeDownvote,
	})
	require.NoError(t, err)

	err = service.Delete(user.ID, item.ID)
	require.NoError(t, err)

	_, down := getPostCounts(t, db, post.ID)
	assert.Equal(t, 0, down)

	// 撤票后可再次投票
	_, err = service.Cast(user.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeUpvote,
	})
	require.NoError(t, err)
}

func TestVoteService_Delete_NotOwner(t *testing.T) {
	service, db := setupVoteService(t)

	voter := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, voter.ID)

	item, err := service.Cast(voter.ID, &dto.CastVoteRequest{
		PostID:   post.ID,
		VoteType: model.VoteTypeUpvote,
	})
	require.NoError(t, err)

	err = service.Delete(other.ID, item.ID)
	assert.ErrorIs(t, err, ErrVotePermission)

	// 计数不受失败请求影响
	up, _ := getPostCounts(t, db, post.ID)
	assert.Equal(t, 1, up)
}

func TestVoteService_Delete_NotFound(t *testing.T) {
	service, db := setupVoteService(t)

	user := testutil.TestUser(t, db)

	err := service.Delete(user.ID, 99999)
	assert.ErrorIs(t, err, ErrVoteNotFound)
}

func TestVoteService_ListByPost(t *testing.T) {
	service, db := setupVoteService(t)

	author := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	testutil.TestVote(t, db, u1.ID, post.ID, model.VoteTypeUpvote)
	testutil.TestVote(t, db, u2.ID, post.ID, model.VoteTypeDownvote)

	items, err := service.ListByPost(post.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
