package db

import (
	"thicket/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init 建立数据库连接并迁移，返回连接句柄供服务构造函数使用
func Init(dsn string, logger zerolog.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("database connection established")

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	logger.Info().Msg("database migration completed")

	seedTags(conn, logger)
	return conn, nil
}

// Migrate 建表迁移，测试用的 sqlite 连接也走这里
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Tag{},
	)
}

func seedTags(conn *gorm.DB, logger zerolog.Logger) {
	// 已有标签则跳过
	var count int64
	conn.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		logger.Debug().Msg("tags already seeded, skipping")
		return
	}

	// 预设标签
	names := []string{"tech", "life", "showcase", "random"}
	for _, name := range names {
		if err := conn.Create(&models.Tag{Name: name}).Error; err != nil {
			logger.Warn().Err(err).Str("tag", name).Msg("failed to seed tag")
		}
	}
	logger.Info().Msg("initial tags created")
}
