package models

import (
	"time"
)

// File 对应 files 表，记录上传到对象存储中的文件
type File struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint64  `gorm:"not null;index" json:"owner_id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	StoragePath string  `gorm:"column:path;type:varchar(1024);not null" json:"path"` // 对象存储中的对象名
	IsPublic    bool    `gorm:"not null;default:false" json:"is_public"`
	PublicURL   *string `gorm:"type:varchar(2048);default:null" json:"public_url"` // 仅在 IsPublic 时有值
	Size        uint64  `gorm:"type:bigint unsigned;not null;default:0" json:"size"`
	MimeType    *string `gorm:"type:varchar(128);default:null" json:"mime_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Shares []ShareLink `gorm:"foreignKey:FileID" json:"shares,omitempty"`
}

// TableName 指定 GORM 使用的表名
func (File) TableName() string {
	return "files"
}
