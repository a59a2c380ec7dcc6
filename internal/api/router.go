package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/api/handler"
	"github.com/qs3c/recipe_go_server/internal/api/middleware"
	"github.com/qs3c/recipe_go_server/internal/pkg/blacklist"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	postHandler    *handler.PostHandler
	commentHandler *handler.CommentHandler
	voteHandler    *handler.VoteHandler
	followHandler  *handler.FollowHandler
	blacklist      *blacklist.Blacklist
	cfg            *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	voteHandler *handler.VoteHandler,
	followHandler *handler.FollowHandler,
	bl *blacklist.Blacklist,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    authHandler,
		userHandler:    userHandler,
		postHandler:    postHandler,
		commentHandler: commentHandler,
		voteHandler:    voteHandler,
		followHandler:  followHandler,
		blacklist:      bl,
		cfg:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	authMW := middleware.Auth(r.cfg.JWT.Secret, r.blacklist)
	optionalAuthMW := middleware.OptionalAuth(r.cfg.JWT.Secret, r.blacklist)

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.POST("/refresh", r.authHandler.Refresh)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 退出登录需要携带有效token
		api.POST("/auth/logout", authMW, r.authHandler.Logout)

		// 公开读取 - 帖子与评论
		public := api.Group("")
		public.Use(optionalAuthMW)
		{
			public.GET("/posts", r.postHandler.List)
			public.GET("/posts/:id", r.postHandler.Get)
			public.GET("/posts/:id/comments", r.commentHandler.List)
			public.GET("/posts/:id/votes", r.voteHandler.ListByPost)
			public.GET("/comments/:id/replies", r.commentHandler.GetReplies)
			public.GET("/comments/:id/tree", r.commentHandler.GetReplyTree)
			public.GET("/feed", r.postHandler.Feed)
			public.GET("/users/:id", r.userHandler.GetUser)
			public.GET("/users/:id/followers", r.followHandler.GetFollowers)
			public.GET("/users/:id/following", r.followHandler.GetFollowing)
			public.GET("/users/:id/followers/count", r.followHandler.GetFollowersCount)
			public.GET("/users/:id/following/count", r.followHandler.GetFollowingCount)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(authMW)
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/votes", r.voteHandler.ListMine)
			}

			// 帖子
			authenticated.POST("/posts", r.postHandler.Create)
			authenticated.PUT("/posts/:id", r.postHandler.Update)
			authenticated.DELETE("/posts/:id", r.postHandler.Delete)

			// 评论
			authenticated.POST("/comments", r.commentHandler.Create)
			authenticated.PUT("/comments/:id", r.commentHandler.Update)
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)

			// 投票
			authenticated.POST("/votes", r.voteHandler.Cast)
			authenticated.DELETE("/votes/:id", r.voteHandler.Delete)

			// 关注
			authenticated.POST("/users/:id/follow", r.followHandler.Follow)
			authenticated.DELETE("/users/:id/follow", r.followHandler.Unfollow)
			authenticated.GET("/users/:id/follow-status", r.followHandler.GetStatus)

			// 关注动态流
			authenticated.GET("/feed/following", r.postHandler.FollowingFeed)
		}
	}

	return engine
}
