package models

import (
	"time"
)

// ShareLink 对应 file_shares 表
// Token 创建后不再修改；续期只重置 CreatedAt，有效期始终从 CreatedAt 推算
type ShareLink struct {
	ID             uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID         uint64  `gorm:"not null;index" json:"file_id"`
	OwnerID        uint64  `gorm:"not null;index" json:"owner_id"`
	Token          string  `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	RecipientEmail *string `gorm:"column:share_email;type:varchar(255);default:null" json:"share_email"`
	OwnerEmail     *string `gorm:"type:varchar(255);default:null" json:"owner_email"`
	OwnerName      *string `gorm:"type:varchar(128);default:null" json:"owner_name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 定义 GORM 关联，方便预加载
	File *File `gorm:"foreignKey:FileID" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (ShareLink) TableName() string {
	return "file_shares"
}
