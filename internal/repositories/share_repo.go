package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/models"
	"gorm.io/gorm"
)

// ShareRepository 分享链接数据访问层
// 所有者发起的操作都以 owner_id 过滤；匿名访问只按 token 查询
type ShareRepository interface {
	Create(ctx context.Context, share *models.ShareLink) error
	FindByToken(ctx context.Context, token string) (*models.ShareLink, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uint64) (*models.ShareLink, error)
	ListByFile(ctx context.Context, fileID, ownerID uint64) ([]models.ShareLink, error)
	ResetCreatedAt(ctx context.Context, id, ownerID uint64, at time.Time) (bool, error)
	Delete(ctx context.Context, id, ownerID uint64) (bool, error)
	DeleteByFile(ctx context.Context, tx *gorm.DB, fileID, ownerID uint64) (int64, error)
}

type shareRepository struct {
	db *gorm.DB
}

var _ ShareRepository = (*shareRepository)(nil)

// NewShareRepository 创建新的shareRepository实例
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

// 创建新的数据库记录
func (r *shareRepository) Create(ctx context.Context, share *models.ShareLink) error {
	if err := r.db.WithContext(ctx).Create(share).Error; err != nil {
		return fmt.Errorf("创建分享链接失败: %w", err)
	}
	return nil
}

// 根据token查找记录，不存在时返回 nil, nil
func (r *shareRepository) FindByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	var share models.ShareLink
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询分享链接失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint64) (*models.ShareLink, error) {
	var share models.ShareLink
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询分享链接失败: %w", err)
	}
	return &share, nil
}

// 查找某个文件的全部分享链接
func (r *shareRepository) ListByFile(ctx context.Context, fileID, ownerID uint64) ([]models.ShareLink, error) {
	var shares []models.ShareLink
	err := r.db.WithContext(ctx).
		Where("file_id = ? AND owner_id = ?", fileID, ownerID).
		Order("created_at desc").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("查询分享列表失败: %w", err)
	}
	return shares, nil
}

// ResetCreatedAt 续期：只改 created_at，token 保持不变
func (r *shareRepository) ResetCreatedAt(ctx context.Context, id, ownerID uint64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ShareLink{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("created_at", at)
	if res.Error != nil {
		return false, fmt.Errorf("续期分享链接失败: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *shareRepository) Delete(ctx context.Context, id, ownerID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.ShareLink{})
	if res.Error != nil {
		return false, fmt.Errorf("删除分享链接失败: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *shareRepository) DeleteByFile(ctx context.Context, tx *gorm.DB, fileID, ownerID uint64) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Where("file_id = ? AND owner_id = ?", fileID, ownerID).
		Delete(&models.ShareLink{})
	if res.Error != nil {
		return 0, fmt.Errorf("删除文件的分享链接失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}
