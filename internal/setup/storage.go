package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/storage"
	"go.uber.org/zap"
)

// InitStorage 按配置选择存储后端并确保存储桶存在
func InitStorage(ctx context.Context, cfg *config.Config) (storage.StorageService, error) {
	svc, err := storage.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("初始化存储服务失败: %w", err)
	}
	logger.Info("存储服务已选择并初始化", zap.String("type", cfg.Storage.Type), zap.String("bucketName", svc.BucketName()))

	// 为外部调用使用带超时的上下文
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx, svc); err != nil {
		return nil, fmt.Errorf("检查或创建存储桶失败: %w", err)
	}
	logger.Info("存储桶已就绪", zap.String("bucketName", svc.BucketName()))
	return svc, nil
}
