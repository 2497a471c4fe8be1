package admin

import (
	"context"
	"errors"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/models"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/cache"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/utils"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/3Eeeecho/go-tinybox/internal/repositories"
	"go.uber.org/zap"
)

const profileCacheTTL = 10 * time.Minute

// UserProfile 当前用户信息
type UserProfile struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	Nickname    *string   `json:"nickname"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserService interface {
	GetUserProfile(ctx context.Context, userID uint64) (*UserProfile, error)
}

type userService struct {
	userRepo repositories.UserRepository
	cache    cache.Cache
}

var _ UserService = (*userService)(nil)

// NewUserService cache 可以为 nil，此时每次都查询数据库
func NewUserService(userRepo repositories.UserRepository, c cache.Cache) UserService {
	return &userService{userRepo: userRepo, cache: c}
}

func (s *userService) GetUserProfile(ctx context.Context, userID uint64) (*UserProfile, error) {
	key := cache.GenerateUserProfileKey(userID)
	if s.cache != nil {
		var cached UserProfile
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("GetUserProfile: 读取缓存失败", zap.Uint64("userID", userID), zap.Error(err))
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("GetUserProfile: Error retrieving user from DB", zap.Uint64("userID", userID), zap.Error(err))
		return nil, xerr.Wrap(xerr.ErrDatabaseError, "查询用户失败", err)
	}
	if user == nil {
		logger.Warn("GetUserProfile: User not found", zap.Uint64("userID", userID))
		return nil, xerr.ErrUserNotFound
	}

	profile := toProfile(user)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, profile, profileCacheTTL); err != nil {
			logger.Warn("GetUserProfile: 写入缓存失败", zap.Uint64("userID", userID), zap.Error(err))
		}
	}
	return profile, nil
}

func toProfile(user *models.User) *UserProfile {
	return &UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Nickname: user.Nickname,
		DisplayName: utils.ResolveDisplayName(utils.Profile{
			FullName: user.FullName,
			Nickname: user.Nickname,
			Username: user.Username,
		}),
		CreatedAt: user.CreatedAt,
	}
}
