package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
)

// StorageService 定义了通用的文件存储操作接口
// 每个实现绑定一个存储桶，对象名由调用方决定
type StorageService interface {
	// 上传文件，返回存储对象的信息或错误
	PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (PutObjectResult, error)
	// 删除文件
	RemoveObject(ctx context.Context, objectName string) error
	// 检查存储桶是否存在
	IsBucketExist(ctx context.Context) (bool, error)
	// 创建存储桶
	MakeBucket(ctx context.Context) error
	// 获取对象的公开访问URL
	GetObjectURL(objectName string) string
	// 生成有效期为 expiry 的下载签名URL
	PreSignGetObjectURL(ctx context.Context, objectName string, expiry time.Duration) (SignedURL, error)
	// 当前使用的存储桶
	BucketName() string
}

type PutObjectResult struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string // 对象哈希值
}

// SignedURL 带过期时间的签名下载地址
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

func NewStorageService(cfg *config.Config) (StorageService, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeMinIO:
		return NewMinIOStorageService(&cfg.MinIO)
	case config.StorageTypeAliyunOSS:
		return NewAliyunOSSStorageService(&cfg.AliyunOSS)
	case config.StorageTypeS3:
		return NewS3StorageService(&cfg.S3)
	default:
		return nil, fmt.Errorf("invalid storageType: %q", cfg.Storage.Type)
	}
}

// EnsureBucket 存储桶不存在时创建
func EnsureBucket(ctx context.Context, s StorageService) error {
	exists, err := s.IsBucketExist(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.MakeBucket(ctx)
}
