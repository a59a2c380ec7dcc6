package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/pkg/queue"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/testutil"
)

func setupReconciler(t *testing.T) (*Reconciler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	r := NewReconciler(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewVoteRepository(db),
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
	)
	return r, db
}

func TestReconciler_ReconcilePost(t *testing.T) {
	r, db := setupReconciler(t)

	author := testutil.TestUser(t, db)
	// 计数被人为打偏
	post := testutil.TestPost(t, db, author.ID, testutil.WithCounters(100, 50, 7))

	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	testutil.TestVote(t, db, u1.ID, post.ID, model.VoteTypeUpvote)
	testutil.TestVote(t, db, u2.ID, post.ID, model.VoteTypeDownvote)

	testutil.TestComment(t, db, u1.ID, post.ID, "Live comment")
	deleted := testutil.TestComment(t, db, u2.ID, post.ID, "Deleted comment")
	commentRepo := repository.NewCommentRepository(db)
	require.NoError(t, commentRepo.SoftDelete(deleted.ID))

	err := r.ReconcilePost(post.ID)
	require.NoError(t, err)

	found, err := repository.NewPostRepository(db).GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.UpvoteCount)
	assert.Equal(t, 1, found.DownvoteCount)
	assert.Equal(t, 1, found.CommentCount)
}

func TestReconciler_Process(t *testing.T) {
	r, db := setupReconciler(t)

	author := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID, testutil.WithCounters(9, 9, 9))

	err := r.Process(context.Background(), &queue.ReconcileMessage{PostID: post.ID})
	require.NoError(t, err)

	found, err := repository.NewPostRepository(db).GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.UpvoteCount)
	assert.Equal(t, 0, found.DownvoteCount)
	assert.Equal(t, 0, found.CommentCount)
}

func TestReconciler_ReconcileUser(t *testing.T) {
	r, db := setupReconciler(t)

	alice := testutil.TestUser(t, db, testutil.WithFollowCounts(42, 42))
	bob := testutil.TestUser(t, db)
	carol := testutil.TestUser(t, db)

	testutil.TestFollow(t, db, alice.ID, bob.ID)
	testutil.TestFollow(t, db, carol.ID, alice.ID)

	err := r.ReconcileUser(alice.ID)
	require.NoError(t, err)

	found, err := repository.NewUserRepository(db).GetByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.FollowingCount)
	assert.Equal(t, 1, found.FollowersCount)
}

func TestReconciler_ReconcileAllUsers(t *testing.T) {
	r, db := setupReconciler(t)

	alice := testutil.TestUser(t, db, testutil.WithFollowCounts(5, 5))
	bob := testutil.TestUser(t, db, testutil.WithFollowCounts(5, 5))

	testutil.TestFollow(t, db, alice.ID, bob.ID)

	err := r.ReconcileAllUsers()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	foundAlice, err := userRepo.GetByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, foundAlice.FollowingCount)
	assert.Equal(t, 0, foundAlice.FollowersCount)

	foundBob, err := userRepo.GetByID(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, foundBob.FollowingCount)
	assert.Equal(t, 1, foundBob.FollowersCount)
}
