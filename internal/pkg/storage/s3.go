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
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3StorageService 兼容 S3 协议的对象存储（AWS S3、R2 等）
type S3StorageService struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       *config.S3Config
}

var _ StorageService = (*S3StorageService)(nil)

// NewS3StorageService 创建并返回一个 S3StorageService 实例
func NewS3StorageService(cfg *config.S3Config) (*S3StorageService, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("S3 bucket_name 不能为空")
	}

	awsCfg := aws.Config{
		Region:           cfg.Region,
		RetryMode:        aws.RetryModeStandard,
		RetryMaxAttempts: 3,
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("S3 客户端初始化成功", zap.String("region", cfg.Region), zap.String("endpoint", cfg.Endpoint))
	return &S3StorageService{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}, nil
}

func (s *S3StorageService) BucketName() string {
	return s.cfg.BucketName
}

func (s *S3StorageService) PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (PutObjectResult, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.BucketName),
		Key:           aws.String(objectName),
		Body:          reader,
		ContentLength: aws.Int64(objectSize),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return PutObjectResult{}, fmt.Errorf("S3 上传文件失败: %w", err)
	}
	return PutObjectResult{
		Bucket: s.cfg.BucketName,
		Key:    objectName,
		Size:   objectSize,
		ETag:   strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

func (s *S3StorageService) RemoveObject(ctx context.Context, objectName string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("S3 删除文件失败: %w", err)
	}
	return nil
}

func (s *S3StorageService) IsBucketExist(ctx context.Context) (bool, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.BucketName)})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("检查 S3 存储桶存在性失败: %w", err)
	}
	return true, nil
}

func (s *S3StorageService) MakeBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(s.cfg.BucketName)}
	// us-east-1 不接受 LocationConstraint
	if s.cfg.Region != "" && s.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.cfg.Region),
		}
	}
	_, err := s.client.CreateBucket(ctx, input)
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			logger.Info("S3 存储桶已存在，无需创建", zap.String("bucket", s.cfg.BucketName))
			return nil
		}
		return fmt.Errorf("创建 S3 存储桶失败: %w", err)
	}
	logger.Info("S3 存储桶创建成功", zap.String("bucket", s.cfg.BucketName))
	return nil
}

// GetObjectURL 自定义 endpoint 时按路径风格拼接，否则使用 AWS 虚拟主机风格域名
func (s *S3StorageService) GetObjectURL(objectName string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.BucketName, objectName)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.BucketName, s.cfg.Region, objectName)
}

func (s *S3StorageService) PreSignGetObjectURL(ctx context.Context, objectName string, expiry time.Duration) (SignedURL, error) {
	issuedAt := time.Now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(objectName),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return SignedURL{}, fmt.Errorf("生成 S3 预签名URL失败: %w", err)
	}
	return SignedURL{URL: req.URL, ExpiresAt: issuedAt.Add(expiry)}, nil
}
