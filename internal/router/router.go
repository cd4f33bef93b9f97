package router

import (
	"thicket/internal/handlers"
	"thicket/internal/middleware"
	"thicket/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Services 路由层依赖的服务集合，进程启动时构造一次传入
type Services struct {
	Users    *services.UserService
	Tokens   *services.TokenService
	Posts    *services.PostService
	Comments *services.CommentService
	Tags     *services.TagService
}

func RegisterRoutes(r *gin.Engine, svc Services, logger zerolog.Logger) {
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.LoadClaims(svc.Tokens))

	// Handlers
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Tokens)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Posts)
	postHandler := handlers.NewPostHandler(svc.Posts, svc.Comments)
	commentHandler := handlers.NewCommentHandler(svc.Comments)
	tagHandler := handlers.NewTagHandler(svc.Tags)

	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/posts", postHandler.List)                    // ?tag= / ?author=
	api.GET("/posts/:id", postHandler.Detail)              // 帖子详情+首页评论
	api.GET("/posts/:id/comments", commentHandler.ListByPost)
	api.GET("/tags", tagHandler.List)                      // 标签及帖子数
	api.GET("/users/:username", userHandler.Profile)       // 用户主页

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", authHandler.Me)
		authorized.PUT("/me", userHandler.UpdateMe)
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.POST("/posts/:id/comments", commentHandler.Create)
		authorized.PUT("/comments/:id", commentHandler.Update)
	}

	// 管理路由 (Admin Routes)。handler 内部仍会查策略表，这里只是提前拦截。
	admin := api.Group("/")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.DELETE("/posts/:id", postHandler.Delete)
		admin.DELETE("/comments/:id", commentHandler.Delete)
		admin.POST("/tags", tagHandler.Create)
		admin.PUT("/tags/:id", tagHandler.Update)
		admin.DELETE("/tags/:id", tagHandler.Delete)
	}
}
