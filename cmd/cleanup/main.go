package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/database"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/worker"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually purge comments")
	retentionDays = flag.Int("retention-days", 0, "Days to keep soft-deleted comments (0 = use config)")
	reconcile     = flag.Bool("reconcile", true, "Recompute post and user counters from source tables")
	purge         = flag.Bool("purge", true, "Purge expired soft-deleted comments")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// 1. 对账：按票表、评论表、关注表重算冗余计数
	if *reconcile {
		log.Println("Reconciling denormalized counters...")
		reconciler := worker.NewReconciler(postRepo, commentRepo, voteRepo, userRepo, followRepo)

		ids, err := postRepo.ListIDs()
		if err != nil {
			log.Fatalf("Failed to list posts: %v", err)
		}
		fixed := 0
		for _, id := range ids {
			if err := reconciler.ReconcilePost(id); err != nil {
				log.Printf("  post %d: reconcile failed: %v", id, err)
				continue
			}
			fixed++
		}
		log.Printf("Reconciled %d posts", fixed)

		if err := reconciler.ReconcileAllUsers(); err != nil {
			log.Printf("User reconcile failed: %v", err)
		} else {
			log.Println("Reconciled user follow counters")
		}
	}

	// 2. 清理过期的软删评论
	if *purge {
		days := *retentionDays
		if days <= 0 {
			days = cfg.Cleanup.RetentionDays
		}
		if days <= 0 {
			days = 30
		}

		before := time.Now().AddDate(0, 0, -days)
		log.Printf("Purging soft-deleted comments older than %d days...", days)

		if *dryRun {
			count, err := commentRepo.CountSoftDeletedBefore(before)
			if err != nil {
				log.Fatalf("Failed to count purgeable comments: %v", err)
			}
			log.Printf("DRY RUN - %d comments would be purged", count)
			log.Println("Run with -dry-run=false to actually purge")
		} else {
			purged, err := commentRepo.PurgeSoftDeletedBefore(before)
			if err != nil {
				log.Fatalf("Failed to purge comments: %v", err)
			}
			log.Printf("Purged %d soft-deleted comments", purged)
		}
	}

	log.Println("Cleanup completed")
}
