package config

import (
	"os"

	"golang.org/x/crypto/bcrypt"

	"thicket/internal/utils"
)

// Config 进程级配置，启动时从环境变量加载一次，按值传递
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	BcryptCost  int
}

// Load 读取环境变量并填充默认值。.env 的加载由 main 通过 godotenv 完成。
func Load() Config {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		BcryptCost:  utils.StringToInt(os.Getenv("BCRYPT_COST")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		cfg.DatabaseURL = "host=localhost user=postgres password=postgres dbname=thicket port=5432 sslmode=disable"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "secret_key_change_me"
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return cfg
}
