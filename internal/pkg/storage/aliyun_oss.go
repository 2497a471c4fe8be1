package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

type AliyunOSSStorageService struct {
	client *oss.Client
	cfg    *config.AliyunOSSConfig // 阿里云OSS的配置信息
}

var _ StorageService = (*AliyunOSSStorageService)(nil)

// NewAliyunOSSStorageService 创建并返回一个 AliyunOSSStorageService 实例
func NewAliyunOSSStorageService(cfg *config.AliyunOSSConfig) (*AliyunOSSStorageService, error) {
	// OSS Endpoint 应该包含 http:// 或 https:// 前缀
	ossClient, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		logger.Error("初始化阿里云OSS客户端失败", zap.Error(err))
		return nil, fmt.Errorf("无法初始化阿里云OSS客户端: %w", err)
	}
	logger.Info("阿里云OSS客户端初始化成功", zap.String("endpoint", cfg.Endpoint))
	return &AliyunOSSStorageService{
		client: ossClient,
		cfg:    cfg,
	}, nil
}

func (s *AliyunOSSStorageService) BucketName() string {
	return s.cfg.BucketName
}

func (s *AliyunOSSStorageService) bucket() (*oss.Bucket, error) {
	bucket, err := s.client.Bucket(s.cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("获取OSS存储桶失败: %w", err)
	}
	return bucket, nil
}

// PutObject OSS SDK 不需要对象大小，上传结果中的 Size 取传入值
func (s *AliyunOSSStorageService) PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (PutObjectResult, error) {
	bucket, err := s.bucket()
	if err != nil {
		return PutObjectResult{}, err
	}

	if err := bucket.PutObject(objectName, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return PutObjectResult{}, fmt.Errorf("阿里云OSS上传文件失败: %w", err)
	}
	return PutObjectResult{
		Bucket: s.cfg.BucketName,
		Key:    objectName,
		Size:   objectSize,
	}, nil
}

func (s *AliyunOSSStorageService) RemoveObject(ctx context.Context, objectName string) error {
	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	if err := bucket.DeleteObject(objectName, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("阿里云OSS删除文件失败: %w", err)
	}
	return nil
}

func (s *AliyunOSSStorageService) IsBucketExist(ctx context.Context) (bool, error) {
	found, err := s.client.IsBucketExist(s.cfg.BucketName)
	if err != nil {
		return false, fmt.Errorf("检查阿里云OSS存储桶存在性失败: %w", err)
	}
	return found, nil
}

func (s *AliyunOSSStorageService) MakeBucket(ctx context.Context) error {
	err := s.client.CreateBucket(s.cfg.BucketName)
	if err != nil {
		var ossErr oss.ServiceError
		if errors.As(err, &ossErr) && (ossErr.Code == "BucketAlreadyExists" || ossErr.Code == "BucketAlreadyOwnedByYou") {
			logger.Info("阿里云OSS存储桶已存在，无需创建", zap.String("bucket", s.cfg.BucketName))
			return nil
		}
		return fmt.Errorf("创建阿里云OSS存储桶失败: %w", err)
	}
	logger.Info("阿里云OSS存储桶创建成功", zap.String("bucket", s.cfg.BucketName))
	return nil
}

// GetObjectURL 阿里云OSS的URL格式为 bucketName.endpoint/objectName
func (s *AliyunOSSStorageService) GetObjectURL(objectName string) string {
	scheme := "http://"
	if s.cfg.UseSSL {
		scheme = "https://"
	}
	endpoint := strings.TrimPrefix(s.cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	return fmt.Sprintf("%s%s.%s/%s", scheme, s.cfg.BucketName, endpoint, objectName)
}

func (s *AliyunOSSStorageService) PreSignGetObjectURL(ctx context.Context, objectName string, expiry time.Duration) (SignedURL, error) {
	bucket, err := s.bucket()
	if err != nil {
		return SignedURL{}, err
	}

	issuedAt := time.Now()
	signedURL, err := bucket.SignURL(objectName, oss.HTTPGet, int64(expiry.Seconds()))
	if err != nil {
		return SignedURL{}, fmt.Errorf("生成阿里云OSS预签名URL失败: %w", err)
	}
	return SignedURL{URL: signedURL, ExpiresAt: issuedAt.Add(expiry)}, nil
}
