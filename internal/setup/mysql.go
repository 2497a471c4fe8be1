package setup

import (
	"fmt"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// requiredColumns 服务运行依赖的列，缺失视为配置错误
var requiredColumns = map[any][]string{
	&models.User{}:      {"id", "username", "password_hash", "email", "full_name", "nickname"},
	&models.File{}:      {"id", "owner_id", "name", "path", "is_public", "public_url", "size", "mime_type"},
	&models.ShareLink{}: {"id", "file_id", "owner_id", "token", "share_email", "owner_email", "owner_name", "created_at"},
}

// InitMySQL 初始化 MySQL 数据库连接
func InitMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接 MySQL 失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层数据库连接失败: %w", err)
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("成功连接MySQL数据库!")
	return db, nil
}

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.File{}, &models.ShareLink{}); err != nil {
		return fmt.Errorf("迁移数据表失败: %w", err)
	}
	logger.Info("Database tables migrated successfully!")
	return nil
}

// VerifySchema 检查必需的表和列，缺失时拒绝启动
func VerifySchema(db *gorm.DB) error {
	m := db.Migrator()
	for model, columns := range requiredColumns {
		if !m.HasTable(model) {
			return fmt.Errorf("数据表缺失: %T", model)
		}
		for _, col := range columns {
			if !m.HasColumn(model, col) {
				return fmt.Errorf("数据表 %T 缺少列 %s", model, col)
			}
		}
	}
	return nil
}

// CloseMySQL 关闭数据库连接
func CloseMySQL(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting generic database object to close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing MySQL database connection", zap.Error(err))
		return
	}
	logger.Info("MySQL database connection closed.")
}
