package cron

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/recipe_go_server/internal/pkg/queue"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/worker"
)

// Service 定时任务：每日入队全量帖子对账、对账用户计数、清理过期软删评论
type Service struct {
	reconciler    *worker.Reconciler
	reconcileQ    *queue.Queue
	postRepo      *repository.PostRepository
	commentRepo   *repository.CommentRepository
	retentionDays int
	stopChan      chan struct{}
}

func NewService(
	reconciler *worker.Reconciler,
	reconcileQ *queue.Queue,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	retentionDays int,
) *Service {
	return &Service{
		reconciler:    reconciler,
		reconcileQ:    reconcileQ,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		retentionDays: retentionDays,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runNightly()
	log.Println("Cron service started (counter reconcile + comment purge)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runNightly 每日零点（UTC）执行一轮
func (s *Service) runNightly() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.RunNow()
			timer.Reset(24 * time.Hour)
		}
	}
}

// RunNow 立即执行一轮（供 cmd/cleanup 手动触发）
func (s *Service) RunNow() {
	s.enqueuePostReconcile()
	s.reconcileUsers()
	s.purgeComments()
}

// enqueuePostReconcile 把全部帖子的对账任务入队，由 worker 消费
func (s *Service) enqueuePostReconcile() {
	ids, err := s.postRepo.ListIDs()
	if err != nil {
		log.Printf("Enqueue reconcile: failed to list posts: %v", err)
		return
	}

	ctx := context.Background()
	enqueued := 0
	for _, id := range ids {
		if err := s.reconcileQ.Push(ctx, &queue.ReconcileMessage{PostID: id}); err != nil {
			log.Printf("Enqueue reconcile: failed to push post %d: %v", id, err)
			continue
		}
		enqueued++
	}
	log.Printf("Enqueued %d post reconcile jobs", enqueued)
}

func (s *Service) reconcileUsers() {
	if err := s.reconciler.ReconcileAllUsers(); err != nil {
		log.Printf("User reconcile failed: %v", err)
		return
	}
	log.Println("User follow counters reconciled")
}

// purgeComments 物理清除超过保留期的软删评论。
// 仍被未删子评论引用的行保留，维持回复树的父引用。
func (s *Service) purgeComments() {
	retentionDays := s.retentionDays
	if retentionDays <= 0 {
		retentionDays = 30
	}

	before := time.Now().AddDate(0, 0, -retentionDays)
	purged, err := s.commentRepo.PurgeSoftDeletedBefore(before)
	if err != nil {
		log.Printf("Comment purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d soft-deleted comments", purged)
	}
}
