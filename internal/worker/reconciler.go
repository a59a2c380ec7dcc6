package worker

import (
	"context"
	"log"

	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/pkg/queue"
	"github.com/qs3c/recipe_go_server/internal/repository"
)

// Reconciler 按基础表重算冗余计数。
// 请求路径上的计数是单语句原子增减，但并发改票、关注/取关交错
// 仍可能留下偏差，对账把计数拉回与投票、评论、关注边一致。
type Reconciler struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	voteRepo    *repository.VoteRepository
	userRepo    *repository.UserRepository
	followRepo  *repository.FollowRepository
}

func NewReconciler(
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	voteRepo *repository.VoteRepository,
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
) *Reconciler {
	return &Reconciler{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
	}
}

// Process 处理单条对账任务
func (r *Reconciler) Process(ctx context.Context, msg *queue.ReconcileMessage) error {
	return r.ReconcilePost(msg.PostID)
}

// ReconcilePost 重算帖子的票数与评论数
func (r *Reconciler) ReconcilePost(postID int64) error {
	upvotes, err := r.voteRepo.CountByPostAndType(postID, model.VoteTypeUpvote)
	if err != nil {
		return err
	}
	downvotes, err := r.voteRepo.CountByPostAndType(postID, model.VoteTypeDownvote)
	if err != nil {
		return err
	}
	comments, err := r.commentRepo.CountActiveByPost(postID)
	if err != nil {
		return err
	}

	return r.postRepo.SetCounters(postID, int(upvotes), int(downvotes), int(comments))
}

// ReconcileUser 重算用户的关注/粉丝计数
func (r *Reconciler) ReconcileUser(userID int64) error {
	following, err := r.followRepo.CountFollowing(userID)
	if err != nil {
		return err
	}
	followers, err := r.followRepo.CountFollowers(userID)
	if err != nil {
		return err
	}

	return r.userRepo.SetFollowCounts(userID, int(following), int(followers))
}

// ReconcileAllUsers 全量对账用户计数
func (r *Reconciler) ReconcileAllUsers() error {
	ids, err := r.userRepo.ListIDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := r.ReconcileUser(id); err != nil {
			log.Printf("Reconcile user %d failed: %v", id, err)
		}
	}
	return nil
}
