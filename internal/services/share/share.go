package share

import (
	"context"
	"strings"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/mailer"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/sharelink"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/storage"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/utils"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/repositories"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ShareService 定义了文件分享服务需要实现的接口
// 除 Resolve 外，所有操作都以调用者作为所有者进行过滤
type ShareService interface {
	// CreateLink 为文件创建新的分享链接
	CreateLink(ctx context.Context, ownerID, fileID uint64, recipientEmail *string, permanent bool) (*LinkResult, error)
	// RenewLink 重置链接的创建时间，token 不变
	RenewLink(ctx context.Context, ownerID, shareID uint64) (*LinkResult, error)
	// RevokeLink 删除分享链接，重复删除不报错
	RevokeLink(ctx context.Context, ownerID, shareID uint64) error
	// SendLinkByEmail 把链接发送给记录中的收件人
	SendLinkByEmail(ctx context.Context, ownerID, shareID uint64) error
	// ListLinks 列出某个文件的全部分享链接及其状态
	ListLinks(ctx context.Context, ownerID, fileID uint64) ([]LinkResult, error)
	// QRCode 生成分享地址的 PNG 二维码
	QRCode(ctx context.Context, ownerID, shareID uint64, size int) ([]byte, error)
	// Resolve 匿名访问者通过 token 解析分享链接
	Resolve(ctx context.Context, token string) (*Resolution, error)
}

// LinkResult 返回给所有者的链接信息
type LinkResult struct {
	ID             uint64           `json:"id"`
	FileID         uint64           `json:"file_id"`
	URL            string           `json:"url"`
	RecipientEmail *string          `json:"share_email"`
	CreatedAt      time.Time        `json:"created_at"`
	Status         sharelink.Status `json:"status"`
}

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type shareService struct {
	shareRepo repositories.ShareRepository
	fileRepo  repositories.FileRepository
	userRepo  repositories.UserRepository
	storage   storage.StorageService
	mailer    mailer.Mailer
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
}

var _ ShareService = (*shareService)(nil)

// NewShareService 创建一个新的 ShareService 实例
func NewShareService(
	shareRepo repositories.ShareRepository,
	fileRepo repositories.FileRepository,
	userRepo repositories.UserRepository,
	storageService storage.StorageService,
	m mailer.Mailer,
	mt *metrics.Metrics,
	cfg *config.Config,
) ShareService {
	return &shareService{
		shareRepo: shareRepo,
		fileRepo:  fileRepo,
		userRepo:  userRepo,
		storage:   storageService,
		mailer:    m,
		metrics:   mt,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *shareService) CreateLink(ctx context.Context, ownerID, fileID uint64, recipientEmail *string, permanent bool) (*LinkResult, error) {
	file, err := s.fileRepo.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		logger.Error("CreateLink: 查询文件失败", zap.Uint64("fileID", fileID), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询文件失败", err)
	}
	if file == nil {
		return nil, xerr.ErrFileNotFound
	}

	token, err := sharelink.NewToken(permanent)
	if err != nil {
		logger.Error("CreateLink: 生成 token 失败", zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrUnavailable, "生成分享 token 失败", err)
	}

	link := &models.ShareLink{
		FileID:         file.ID,
		OwnerID:        ownerID,
		Token:          token,
		RecipientEmail: normalizeEmail(recipientEmail),
		CreatedAt:      s.now(),
	}
	// 保存分享者快照，分享页无需再查询用户表
	s.fillOwnerSnapshot(ctx, link)

	if err := s.shareRepo.Create(ctx, link); err != nil {
		logger.Error("CreateLink: 保存分享链接失败", zap.Uint64("fileID", fileID), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "保存分享链接失败", err)
	}

	s.metrics.LinkCreated(permanent)
	logger.Info("CreateLink: 分享链接已创建",
		zap.Uint64("shareID", link.ID),
		zap.Uint64("fileID", fileID),
		zap.Uint64("ownerID", ownerID),
		zap.Bool("permanent", permanent),
		logger.MaskToken(token))
	return s.toResult(link), nil
}

func (s *shareService) RenewLink(ctx context.Context, ownerID, shareID uint64) (*LinkResult, error) {
	ok, err := s.shareRepo.ResetCreatedAt(ctx, shareID, ownerID, s.now())
	if err != nil {
		logger.Error("RenewLink: 续期失败", zap.Uint64("shareID", shareID), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "续期分享链接失败", err)
	}
	if !ok {
		return nil, xerr.ErrShareNotFound
	}

	link, err := s.shareRepo.FindByIDAndOwner(ctx, shareID, ownerID)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询分享链接失败", err)
	}
	if link == nil {
		// 续期后被并发撤销
		return nil, xerr.ErrShareNotFound
	}

	s.metrics.LinkRenewed()
	logger.Info("RenewLink: 分享链接已续期", zap.Uint64("shareID", shareID), zap.Uint64("ownerID", ownerID))
	return s.toResult(link), nil
}

func (s *shareService) RevokeLink(ctx context.Context, ownerID, shareID uint64) error {
	deleted, err := s.shareRepo.Delete(ctx, shareID, ownerID)
	if err != nil {
		logger.Error("RevokeLink: 删除失败", zap.Uint64("shareID", shareID), zap.Error(err))
		return xerr.Wrap(xerr.ErrDatabaseError, "撤销分享链接失败", err)
	}
	if !deleted {
		logger.Debug("RevokeLink: 链接不存在或已删除", zap.Uint64("shareID", shareID), zap.Uint64("ownerID", ownerID))
		return nil
	}
	logger.Info("RevokeLink: 分享链接已撤销", zap.Uint64("shareID", shareID), zap.Uint64("ownerID", ownerID))
	return nil
}

func (s *shareService) SendLinkByEmail(ctx context.Context, ownerID, shareID uint64) error {
	link, err := s.shareRepo.FindByIDAndOwner(ctx, shareID, ownerID)
	if err != nil {
		return xerr.Wrap(xerr.ErrDatabaseError, "查询分享链接失败", err)
	}
	if link == nil {
		return xerr.ErrShareNotFound
	}
	if link.RecipientEmail == nil || *link.RecipientEmail == "" {
		return xerr.ErrRecipientMissing
	}
	if !s.mailer.Enabled() {
		return xerr.ErrEmailNotConfigured
	}

	file, err := s.fileRepo.FindByIDAndOwner(ctx, link.FileID, ownerID)
	if err != nil {
		return xerr.Wrap(xerr.ErrDatabaseError, "查询文件失败", err)
	}
	if file == nil {
		return xerr.ErrFileNotFound
	}

	if link.OwnerEmail == nil || link.OwnerName == nil {
		s.fillOwnerSnapshot(ctx, link)
	}
	if link.OwnerEmail == nil || *link.OwnerEmail == "" {
		return xerr.ErrOwnerEmailMissing
	}
	ownerName := *link.OwnerEmail
	if link.OwnerName != nil && strings.TrimSpace(*link.OwnerName) != "" {
		ownerName = strings.TrimSpace(*link.OwnerName)
	}

	shareURL := sharelink.URL(s.cfg.Server.BaseURL, link.Token)
	body, err := mailer.RenderShareLink(mailer.ShareLinkData{
		OwnerName:  ownerName,
		OwnerEmail: *link.OwnerEmail,
		FileName:   file.Name,
		ShareURL:   shareURL,
		Permanent:  sharelink.Decode(link.Token),
	})
	if err != nil {
		logger.Error("SendLinkByEmail: 渲染邮件失败", zap.Error(err))
		return xerr.Wrap(xerr.ErrEmailError, "渲染邮件失败", err)
	}

	err = s.mailer.Send(ctx, *link.RecipientEmail, mailer.ShareLinkSubject(ownerName, file.Name), body)
	s.metrics.EmailSent(err)
	if err != nil {
		logger.Error("SendLinkByEmail: 发送失败", zap.Uint64("shareID", shareID), zap.Error(err))
		return xerr.Wrap(xerr.ErrEmailError, "发送分享邮件失败", err)
	}
	logger.Info("SendLinkByEmail: 邮件已发送", zap.Uint64("shareID", shareID), zap.Uint64("ownerID", ownerID))
	return nil
}

func (s *shareService) ListLinks(ctx context.Context, ownerID, fileID uint64) ([]LinkResult, error) {
	file, err := s.fileRepo.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询文件失败", err)
	}
	if file == nil {
		return nil, xerr.ErrFileNotFound
	}

	links, err := s.shareRepo.ListByFile(ctx, fileID, ownerID)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询分享列表失败", err)
	}
	return s.toResults(links), nil
}

func (s *shareService) QRCode(ctx context.Context, ownerID, shareID uint64, size int) ([]byte, error) {
	link, err := s.shareRepo.FindByIDAndOwner(ctx, shareID, ownerID)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询分享链接失败", err)
	}
	if link == nil {
		return nil, xerr.ErrShareNotFound
	}

	switch {
	case size <= 0:
		size = defaultQRSize
	case size < minQRSize:
		size = minQRSize
	case size > maxQRSize:
		size = maxQRSize
	}
	png, err := qrcode.Encode(sharelink.URL(s.cfg.Server.BaseURL, link.Token), qrcode.Medium, size)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrUnavailable, "生成二维码失败", err)
	}
	return png, nil
}

// toResults 将记录转换为带状态的结果，状态按当前时间计算
func (s *shareService) toResults(links []models.ShareLink) []LinkResult {
	results := make([]LinkResult, 0, len(links))
	for i := range links {
		results = append(results, *s.toResult(&links[i]))
	}
	return results
}

func (s *shareService) toResult(link *models.ShareLink) *LinkResult {
	return &LinkResult{
		ID:             link.ID,
		FileID:         link.FileID,
		URL:            sharelink.URL(s.cfg.Server.BaseURL, link.Token),
		RecipientEmail: link.RecipientEmail,
		CreatedAt:      link.CreatedAt,
		Status:         sharelink.StatusOf(link.Token, link.CreatedAt, s.now()),
	}
}

// fillOwnerSnapshot 查询失败时不阻断主流程，快照保持为空
func (s *shareService) fillOwnerSnapshot(ctx context.Context, link *models.ShareLink) {
	owner, err := s.userRepo.GetUserByID(ctx, link.OwnerID)
	if err != nil {
		logger.Warn("读取分享者信息失败", zap.Uint64("ownerID", link.OwnerID), zap.Error(err))
		return
	}
	if owner == nil {
		return
	}
	if owner.Email != "" {
		email := owner.Email
		link.OwnerEmail = &email
	}
	name := utils.ResolveDisplayName(utils.Profile{
		FullName: owner.FullName,
		Nickname: owner.Nickname,
		Username: owner.Username,
	})
	link.OwnerName = &name
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.TrimSpace(*email)
	if v == "" {
		return nil
	}
	return &v
}
