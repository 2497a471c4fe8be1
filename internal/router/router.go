package router

import (
	"net/http"

	_ "github.com/3Eeeecho/go-tinybox/docs"
	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/handlers"
	"github.com/3Eeeecho/go-tinybox/internal/middlewares"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/cache"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 路由需要的全部 Handler
type Handlers struct {
	Auth  *handlers.AuthHandler
	User  *handlers.UserHandler
	File  *handlers.FileHandler
	Share *handlers.ShareHandler
}

func InitRouter(h Handlers, rateLimitCache cache.Cache, m *metrics.Metrics, cfg *config.Config) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestID(), middlewares.ZapLogger(m))
	// 上传文件走 multipart，超出部分落盘
	router.MaxMultipartMemory = 32 << 20

	// Health Check 路由
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 匿名访问的分享页
	router.GET("/share/:token", middlewares.ShareRateLimit(rateLimitCache, cfg.RateLimit), h.Share.ViewShare)

	v1 := router.Group("/api/v1")
	{
		// 认证相关路由 (无需认证)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由组
		authenticated := v1.Group("")
		authenticated.Use(middlewares.AuthMiddleware(cfg))

		userGroup := authenticated.Group("/users")
		{
			userGroup.GET("/me", h.User.GetUserProfile)
		}

		fileGroup := authenticated.Group("/files")
		{
			fileGroup.GET("", h.File.ListFiles)
			fileGroup.POST("", h.File.UploadFile)
			fileGroup.PUT("/:file_id/visibility", h.File.SetVisibility)
			fileGroup.DELETE("/:file_id", h.File.DeleteFile)
			fileGroup.GET("/:file_id/shares", h.Share.ListFileShares)
		}

		shareGroup := authenticated.Group("/shares")
		{
			shareGroup.POST("", h.Share.CreateShare)
			shareGroup.PUT("/:share_id/renew", h.Share.RenewShare)
			shareGroup.DELETE("/:share_id", h.Share.RevokeShare)
			shareGroup.POST("/:share_id/email", h.Share.EmailShare)
			shareGroup.GET("/:share_id/qrcode", h.Share.ShareQRCode)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		xerr.Error(c, http.StatusNotFound, xerr.NotFoundCode, "Route not found")
	})

	return router
}
