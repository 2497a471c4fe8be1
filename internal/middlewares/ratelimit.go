package middlewares

import (
	"math"
	"net/http"
	"strconv"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/cache"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShareRateLimit 按客户端 IP 对匿名分享页做固定窗口限流
// 计数失败时放行，Redis 故障不影响访问
func ShareRateLimit(c cache.Cache, cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.ShareRequests <= 0 || cfg.ShareWindow <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	limit := int64(cfg.ShareRequests)

	return func(ctx *gin.Context) {
		key := cache.GenerateShareRateLimitKey(ctx.ClientIP())
		count, ttl, err := c.IncrWindow(ctx.Request.Context(), key, cfg.ShareWindow)
		if err != nil {
			logger.Warn("ShareRateLimit: 计数失败，放行请求", zap.String("key", key), zap.Error(err))
			ctx.Next()
			return
		}

		ctx.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(max(limit-count, 0), 10))
		if count > limit {
			ctx.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			xerr.AbortWithError(ctx, http.StatusTooManyRequests, xerr.TooManyRequestsCode, "请求过于频繁，请稍后再试")
			return
		}
		ctx.Next()
	}
}
