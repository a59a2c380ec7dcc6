package main

import (
	"fmt"
	"log"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/api"
	"github.com/qs3c/recipe_go_server/internal/api/handler"
	"github.com/qs3c/recipe_go_server/internal/database"
	"github.com/qs3c/recipe_go_server/internal/pkg/blacklist"
	"github.com/qs3c/recipe_go_server/internal/pkg/email"
	"github.com/qs3c/recipe_go_server/internal/pkg/oauth"
	"github.com/qs3c/recipe_go_server/internal/pkg/oss"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/service"
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

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// token黑名单与OAuth state存储
	tokenList := blacklist.New(rdb)
	stateStore := oauth.NewStateStore(rdb)

	// 邮件服务
	emailSvc := email.NewService(&cfg.Email)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, tokenList, emailSvc, cfg)
	userService := service.NewUserService(userRepo, ossClient, cfg)
	postService := service.NewPostService(postRepo, followRepo, cfg)
	commentService := service.NewCommentService(db, commentRepo, postRepo, cfg)
	voteService := service.NewVoteService(db, voteRepo, postRepo, cfg)
	followService := service.NewFollowService(db, followRepo, userRepo, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	voteHandler := handler.NewVoteHandler(voteService)
	followHandler := handler.NewFollowHandler(followService)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		postHandler,
		commentHandler,
		voteHandler,
		followHandler,
		tokenList,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
