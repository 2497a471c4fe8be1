package share

import (
	"context"
	"strings"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/sharelink"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"go.uber.org/zap"
)

// State 解析结果。不存在与不可用以错误返回
type State string

const (
	StateResolved State = "resolved"
	StateExpired  State = "expired"
)

const unknownOwner = "Tiny Box user"

// Resolution 分享页展示所需的全部信息
// 过期时仍返回文件信息，但不包含下载地址
type Resolution struct {
	State          State      `json:"state"`
	FileName       string     `json:"file_name"`
	MimeType       string     `json:"mime_type"`
	Size           uint64     `json:"size"`
	IsPublic       bool       `json:"is_public"`
	OwnerName      string     `json:"owner_name"`
	OwnerEmail     string     `json:"owner_email"`
	RecipientEmail *string    `json:"share_email"`
	SharedAt       time.Time  `json:"shared_at"`
	Permanent      bool       `json:"permanent"`
	ExpiresAt      *time.Time `json:"expires_at"` // 永久链接为空

	DownloadURL       string     `json:"download_url,omitempty"`
	DownloadExpiresAt *time.Time `json:"download_expires_at,omitempty"` // 仅签名地址有值
}

// Resolve 每次请求都重新计算，不缓存结果
func (s *shareService) Resolve(ctx context.Context, token string) (*Resolution, error) {
	res, outcome, err := s.resolve(ctx, token)
	s.metrics.ShareResolved(outcome)
	return res, err
}

func (s *shareService) resolve(ctx context.Context, token string) (*Resolution, string, error) {
	// 1. 按 token 查找，不区分所有者
	link, err := s.shareRepo.FindByToken(ctx, token)
	if err != nil {
		// 查询失败对访问者同样表现为不存在，原因只写日志
		logger.Error("Resolve: 查询分享链接失败", logger.MaskToken(token), zap.Error(err))
		return nil, metrics.OutcomeNotFound, xerr.ErrShareNotFound
	}
	if link == nil {
		return nil, metrics.OutcomeNotFound, xerr.ErrShareNotFound
	}

	// 2. 文件必须仍属于创建链接的用户
	file, err := s.fileRepo.FindByIDAndOwner(ctx, link.FileID, link.OwnerID)
	if err != nil {
		logger.Error("Resolve: 查询文件失败", zap.Uint64("shareID", link.ID), zap.Error(err))
		return nil, metrics.OutcomeNotFound, xerr.ErrFileNotFound
	}
	if file == nil {
		return nil, metrics.OutcomeNotFound, xerr.ErrFileNotFound
	}

	// 3. token 前缀决定是否永久
	permanent := sharelink.Decode(link.Token)
	now := s.now()

	res := &Resolution{
		FileName:       file.Name,
		Size:           file.Size,
		IsPublic:       file.IsPublic,
		RecipientEmail: link.RecipientEmail,
		SharedAt:       link.CreatedAt,
		Permanent:      permanent,
	}
	if file.MimeType != nil {
		res.MimeType = strings.TrimSpace(*file.MimeType)
	}
	res.OwnerName, res.OwnerEmail = ownerDisplay(link.OwnerName, link.OwnerEmail)
	if expiry, ok := sharelink.ExpiresAt(link.CreatedAt, permanent); ok {
		res.ExpiresAt = &expiry
	}

	// 4. 有效期
	if sharelink.IsExpired(link.CreatedAt, permanent, now) {
		res.State = StateExpired
		return res, metrics.OutcomeExpired, nil
	}

	// 5. 公开文件直接返回公开地址，私有文件每次签发新的短期地址
	res.State = StateResolved
	if file.IsPublic && file.PublicURL != nil && *file.PublicURL != "" {
		res.DownloadURL = *file.PublicURL
		return res, metrics.OutcomeResolved, nil
	}

	signed, err := s.storage.PreSignGetObjectURL(ctx, file.StoragePath, sharelink.TTL)
	if err != nil {
		logger.Error("Resolve: 生成签名URL失败", zap.Uint64("fileID", file.ID), zap.Error(err))
		return nil, metrics.OutcomeUnavailable, xerr.Wrap(xerr.ErrStorageError, "生成下载地址失败", err)
	}
	res.DownloadURL = signed.URL
	res.DownloadExpiresAt = &signed.ExpiresAt
	return res, metrics.OutcomeResolved, nil
}

// ownerDisplay 名称依次取快照名称、邮箱，均为空时使用占位名
func ownerDisplay(name, email *string) (string, string) {
	var displayName, displayEmail string
	if email != nil {
		displayEmail = strings.TrimSpace(*email)
	}
	if name != nil {
		displayName = strings.TrimSpace(*name)
	}
	if displayName == "" {
		displayName = displayEmail
	}
	if displayName == "" {
		displayName = unknownOwner
	}
	return displayName, displayEmail
}
