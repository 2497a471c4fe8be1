package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrCacheMiss error = errors.New("缓存未命中,key不存在")

// 缓存通用接口
type Cache interface {
	// Set在缓存中设置一个值，并指定过期时间。
	// value应该是一个可以被JSON封送的结构体或指向结构体的指针。
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Get从缓存中检索一个值，并将其解编组到目标接口。
	// key 不存在时返回 ErrCacheMiss
	Get(ctx context.Context, key string, target any) error

	// 删除一个或多个key
	Del(ctx context.Context, keys ...string) error

	// IncrWindow 计数加一，首次计数时设置窗口过期时间，返回当前计数和剩余时间
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

func GenerateUserProfileKey(userID uint64) string {
	return fmt.Sprintf("user:profile:%d", userID)
}

func GenerateShareRateLimitKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:share:%s", clientIP)
}
