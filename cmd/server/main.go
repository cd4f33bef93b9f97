package main

import (
	"os"

	"thicket/internal/config"
	"thicket/internal/db"
	"thicket/internal/router"
	"thicket/internal/services"
	"thicket/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, reading env vars from system")
	}

	cfg := config.Load()

	// Initialize Database
	conn, err := db.Init(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	cache, err := utils.NewCache(500)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create cache")
	}

	// 服务显式构造一次，按引用传给路由层，不使用全局注册表
	userService := services.NewUserService(conn, cfg.BcryptCost)
	svc := router.Services{
		Users:    userService,
		Tokens:   services.NewTokenService(cfg.JWTSecret),
		Posts:    services.NewPostService(conn, cache),
		Comments: services.NewCommentService(conn, userService),
		Tags:     services.NewTagService(conn, cache),
	}

	// Initialize Gin
	r := gin.New()
	r.Use(gin.Recovery())

	router.RegisterRoutes(r, svc, logger)

	logger.Info().Str("port", cfg.Port).Msg("thicket server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
