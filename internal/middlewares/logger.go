package middlewares

import (
	"strings"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sharePathPrefix = "/share/"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID 沿用客户端传入的请求 ID，没有则生成一个并写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// ZapLogger 记录访问日志并上报请求指标
// 分享页路径中的 token 会被打码
func ZapLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveHTTP(c.Request.Method, route, status, elapsed)

		fields := []zap.Field{
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", maskedPath(c.Request.URL.Path)),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("clientIP", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("HTTP请求", fields...)
		case status >= 400:
			logger.Warn("HTTP请求", fields...)
		default:
			logger.Info("HTTP请求", fields...)
		}
	}
}

func maskedPath(path string) string {
	if !strings.HasPrefix(path, sharePathPrefix) {
		return path
	}
	token := strings.TrimPrefix(path, sharePathPrefix)
	if token == "" {
		return path
	}
	return sharePathPrefix + logger.MaskToken(token).String
}
