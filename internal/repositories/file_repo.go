package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/3Eeeecho/go-tinybox/internal/models"
	"gorm.io/gorm"
)

// FileRepository 定义文件数据访问层接口
// 除 Create 外的操作都以 id + owner_id 作为条件，归属校验和读写在同一条 SQL 中完成
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uint64) (*models.File, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]models.File, error)
	UpdateVisibility(ctx context.Context, id, ownerID uint64, isPublic bool, publicURL *string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id, ownerID uint64) (bool, error)
}

type fileRepository struct {
	db *gorm.DB
}

var _ FileRepository = (*fileRepository)(nil)

// NewFileRepository 创建一个新的 FileRepository 实例
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("创建文件记录失败: %w", err)
	}
	return nil
}

// FindByIDAndOwner 记录不存在或不属于该用户时返回 nil, nil
func (r *fileRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint64) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询文件失败: %w", err)
	}
	return &file, nil
}

// ListByOwner 按上传时间倒序列出用户的文件，并预加载每个文件的分享链接
func (r *fileRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Preload("Shares", func(db *gorm.DB) *gorm.DB {
			return db.Where("owner_id = ?", ownerID).Order("created_at desc")
		}).
		Order("created_at desc").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("查询文件列表失败: %w", err)
	}
	return files, nil
}

func (r *fileRepository) UpdateVisibility(ctx context.Context, id, ownerID uint64, isPublic bool, publicURL *string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.File{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			"is_public":  isPublic,
			"public_url": publicURL,
		})
	if res.Error != nil {
		return false, fmt.Errorf("更新文件可见性失败: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *fileRepository) Delete(ctx context.Context, tx *gorm.DB, id, ownerID uint64) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.File{})
	if res.Error != nil {
		return false, fmt.Errorf("删除文件记录失败: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
