package explorer

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/sharelink"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/storage"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxUploadSize 单个文件上传上限 500MB
const MaxUploadSize int64 = 500 << 20

// FileService 文件管理服务，所有操作都限定在调用者自己的文件
type FileService interface {
	Upload(ctx context.Context, ownerID uint64, in UploadInput) (*models.File, error)
	ListFiles(ctx context.Context, ownerID uint64) ([]FileView, error)
	SetVisibility(ctx context.Context, ownerID, fileID uint64, public bool) (*models.File, error)
	Delete(ctx context.Context, ownerID, fileID uint64) error
}

type UploadInput struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
	MakePublic  bool
}

// FileView 文件列表项，附带分享链接及其当前状态
type FileView struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Size      uint64      `json:"size"`
	MimeType  *string     `json:"mime_type"`
	IsPublic  bool        `json:"is_public"`
	PublicURL *string     `json:"public_url"`
	CreatedAt time.Time   `json:"created_at"`
	Shares    []ShareView `json:"shares"`
}

type ShareView struct {
	ID             uint64           `json:"id"`
	URL            string           `json:"url"`
	RecipientEmail *string          `json:"share_email"`
	CreatedAt      time.Time        `json:"created_at"`
	Status         sharelink.Status `json:"status"`
}

type fileService struct {
	fileRepo  repositories.FileRepository
	shareRepo repositories.ShareRepository
	tm        TransactionManager
	storage   storage.StorageService
	cfg       *config.Config
	now       func() time.Time
}

var _ FileService = (*fileService)(nil)

func NewFileService(
	fileRepo repositories.FileRepository,
	shareRepo repositories.ShareRepository,
	tm TransactionManager,
	ss storage.StorageService,
	cfg *config.Config,
) FileService {
	return &fileService{
		fileRepo:  fileRepo,
		shareRepo: shareRepo,
		tm:        tm,
		storage:   ss,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *fileService) Upload(ctx context.Context, ownerID uint64, in UploadInput) (*models.File, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Size <= 0 || in.Reader == nil {
		return nil, xerr.ErrInvalidParams
	}
	if in.Size > MaxUploadSize {
		return nil, xerr.ErrFileTooLarge
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objName := objectName(ownerID, name, s.now())
	if _, err := s.storage.PutObject(ctx, objName, in.Reader, in.Size, contentType); err != nil {
		logger.Error("Upload: 上传到存储失败", zap.String("object", objName), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrStorageError, "上传文件失败", err)
	}

	file := &models.File{
		OwnerID:     ownerID,
		Name:        name,
		StoragePath: objName,
		IsPublic:    in.MakePublic,
		Size:        uint64(in.Size),
		MimeType:    &contentType,
	}
	if in.MakePublic {
		url := s.storage.GetObjectURL(objName)
		file.PublicURL = &url
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		logger.Error("Upload: 保存文件记录失败", zap.String("object", objName), zap.Error(err))
		// 记录写入失败时清理已上传的对象
		if rmErr := s.storage.RemoveObject(ctx, objName); rmErr != nil {
			logger.Error("Upload: 清理存储对象失败，对象成为孤儿", zap.String("object", objName), zap.Error(rmErr))
		}
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "保存文件记录失败", err)
	}

	logger.Info("Upload: 文件上传成功",
		zap.Uint64("fileID", file.ID),
		zap.Uint64("ownerID", ownerID),
		zap.String("object", objName),
		zap.Bool("public", in.MakePublic))
	return file, nil
}

func (s *fileService) ListFiles(ctx context.Context, ownerID uint64) ([]FileView, error) {
	files, err := s.fileRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("ListFiles: 查询失败", zap.Uint64("ownerID", ownerID), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询文件列表失败", err)
	}

	now := s.now()
	views := make([]FileView, 0, len(files))
	for i := range files {
		views = append(views, toFileView(&files[i], s.cfg.Server.BaseURL, now))
	}
	return views, nil
}

// SetVisibility 公开时写入公开地址，私有时清空；已有分享链接在下次访问时按新状态解析
func (s *fileService) SetVisibility(ctx context.Context, ownerID, fileID uint64, public bool) (*models.File, error) {
	file, err := s.fileRepo.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询文件失败", err)
	}
	if file == nil {
		return nil, xerr.ErrFileNotFound
	}

	var publicURL *string
	if public {
		url := s.storage.GetObjectURL(file.StoragePath)
		publicURL = &url
	}

	ok, err := s.fileRepo.UpdateVisibility(ctx, fileID, ownerID, public, publicURL)
	if err != nil {
		logger.Error("SetVisibility: 更新失败", zap.Uint64("fileID", fileID), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "更新文件可见性失败", err)
	}
	if !ok {
		return nil, xerr.ErrFileNotFound
	}

	file.IsPublic = public
	file.PublicURL = publicURL
	logger.Info("SetVisibility: 文件可见性已更新", zap.Uint64("fileID", fileID), zap.Bool("public", public))
	return file, nil
}

// Delete 先在事务中删除分享链接和文件记录，再删除存储对象
// 存储删除失败只记录日志，数据库中已不存在该文件
func (s *fileService) Delete(ctx context.Context, ownerID, fileID uint64) error {
	file, err := s.fileRepo.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return xerr.Wrap(xerr.ErrDatabaseError, "查询文件失败", err)
	}
	if file == nil {
		return xerr.ErrFileNotFound
	}

	var removedLinks int64
	err = s.tm.WithTransaction(ctx, func(tx *gorm.DB) error {
		n, err := s.shareRepo.DeleteByFile(ctx, tx, fileID, ownerID)
		if err != nil {
			return err
		}
		removedLinks = n

		deleted, err := s.fileRepo.Delete(ctx, tx, fileID, ownerID)
		if err != nil {
			return err
		}
		if !deleted {
			return xerr.ErrFileNotFound
		}
		return nil
	})
	if err != nil {
		if xerr.KindOf(err) == xerr.ErrNotFound {
			return err
		}
		logger.Error("Delete: 删除文件记录失败", zap.Uint64("fileID", fileID), zap.Error(err))
		return xerr.Wrap(xerr.ErrDatabaseError, "删除文件失败", err)
	}

	if err := s.storage.RemoveObject(ctx, file.StoragePath); err != nil {
		logger.Error("Delete: 删除存储对象失败，对象成为孤儿",
			zap.Uint64("fileID", fileID),
			zap.String("object", file.StoragePath),
			zap.Error(err))
	}

	logger.Info("Delete: 文件已删除",
		zap.Uint64("fileID", fileID),
		zap.Uint64("ownerID", ownerID),
		zap.Int64("removedLinks", removedLinks))
	return nil
}
