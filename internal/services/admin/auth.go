package admin

import (
	"context"
	"strings"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/mailer"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/utils"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/repositories"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username string
	Password string
	Email    string
	FullName *string
	Nickname *string
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error)
	// LoginUser identifier 可以是用户名或邮箱
	LoginUser(ctx context.Context, identifier, password string) (string, error)
}

type authService struct {
	userRepo repositories.UserRepository
	mailer   mailer.Mailer
	cfg      *config.Config
}

// 确保authService实现了AuthService的方法
var _ AuthService = (*authService)(nil)

func NewAuthService(userRepo repositories.UserRepository, m mailer.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   m,
		cfg:      cfg,
	}
}

func (s *authService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	//检查用户名是否存在
	existingUser, err := s.userRepo.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "检查用户名失败", err)
	}
	if existingUser != nil {
		return nil, xerr.ErrUserAlreadyExists
	}

	//检查邮箱是否存在
	existingUser, err = s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "检查邮箱失败", err)
	}
	if existingUser != nil {
		return nil, xerr.ErrEmailAlreadyExists
	}

	//哈希密码
	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, xerr.Wrap(xerr.ErrUnavailable, "密码加密失败", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: hashedPassword,
		Email:        in.Email,
		FullName:     trimmed(in.FullName),
		Nickname:     trimmed(in.Nickname),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "创建用户失败", err)
	}

	logger.Info("RegisterUser: 用户注册成功", zap.Uint64("userID", user.ID), zap.String("username", user.Username))
	s.sendWelcome(ctx, user)
	return user, nil
}

// sendWelcome 欢迎邮件失败不影响注册结果
func (s *authService) sendWelcome(ctx context.Context, user *models.User) {
	if !s.mailer.Enabled() {
		return
	}
	name := utils.ResolveDisplayName(utils.Profile{FullName: user.FullName, Nickname: user.Nickname, Username: user.Username})
	body, err := mailer.RenderWelcome(mailer.WelcomeData{
		UserName:     name,
		DashboardURL: s.cfg.Server.BaseURL + "/",
	})
	if err != nil {
		logger.Warn("RegisterUser: 渲染欢迎邮件失败", zap.Error(err))
		return
	}
	if err := s.mailer.Send(ctx, user.Email, "Welcome to Tiny Box, "+name+"!", body); err != nil {
		logger.Warn("RegisterUser: 欢迎邮件发送失败", zap.Uint64("userID", user.ID), zap.Error(err))
	}
}

func (s *authService) LoginUser(ctx context.Context, identifier, password string) (string, error) {
	// 先按用户名查找，找不到再按邮箱查找
	user, err := s.userRepo.GetUserByUsername(ctx, identifier)
	if err != nil {
		return "", xerr.Wrap(xerr.ErrDatabaseError, "查询用户失败", err)
	}
	if user == nil {
		user, err = s.userRepo.GetUserByEmail(ctx, identifier)
		if err != nil {
			return "", xerr.Wrap(xerr.ErrDatabaseError, "查询用户失败", err)
		}
	}
	// 用户不存在与密码错误返回同一个错误
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", xerr.ErrInvalidCredentials
	}

	tokenString, err := utils.GenerateToken(
		user.ID,
		user.Username,
		user.Email,
		s.cfg.JWT.SecretKey,
		s.cfg.JWT.Issuer,
		s.cfg.JWT.ExpiresIn,
	)
	if err != nil {
		return "", xerr.Wrap(xerr.ErrUnavailable, "生成 token 失败", err)
	}

	logger.Info("LoginUser: 用户登录成功", zap.Uint64("userID", user.ID))
	return tokenString, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
