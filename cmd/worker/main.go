package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/database"
	"github.com/qs3c/recipe_go_server/internal/pkg/cron"
	"github.com/qs3c/recipe_go_server/internal/pkg/queue"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/worker"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue
	reconcileQueue := queue.NewQueue(rdb, cfg.Queue.ReconcileQueue)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// 创建对账处理器
	reconciler := worker.NewReconciler(postRepo, commentRepo, voteRepo, userRepo, followRepo)

	// 定时任务：每日入队全量对账并清理过期软删评论
	cronSvc := cron.NewService(reconciler, reconcileQueue, postRepo, commentRepo, cfg.Cleanup.RetentionDays)
	cronSvc.Start()
	defer cronSvc.Stop()

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					msg, err := reconcileQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					if err := reconciler.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: reconcile post %d failed: %v", workerID, msg.PostID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
