package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/handlers"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/cache"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/mailer"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/metrics"
	"github.com/3Eeeecho/go-tinybox/internal/repositories"
	"github.com/3Eeeecho/go-tinybox/internal/router"
	"github.com/3Eeeecho/go-tinybox/internal/services/admin"
	"github.com/3Eeeecho/go-tinybox/internal/services/explorer"
	"github.com/3Eeeecho/go-tinybox/internal/services/share"
	"github.com/3Eeeecho/go-tinybox/internal/setup"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer 负责构建所有依赖
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	// 初始化数据库连接
	mysqlDB, err := setup.InitMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MySQL: %w", err)
	}
	if err := setup.AutoMigrate(mysqlDB); err != nil {
		setup.CloseMySQL(mysqlDB)
		return nil, err
	}
	if err := setup.VerifySchema(mysqlDB); err != nil {
		setup.CloseMySQL(mysqlDB)
		return nil, fmt.Errorf("数据库结构校验失败: %w", err)
	}

	// 初始化 Redis 连接
	redisClient, err := setup.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		setup.CloseMySQL(mysqlDB)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	ss, err := setup.InitStorage(ctx, cfg)
	if err != nil {
		setup.CloseRedis(redisClient)
		setup.CloseMySQL(mysqlDB)
		return nil, err
	}

	m := mailer.New(&cfg.Email)
	if !m.Enabled() {
		logger.Warn("邮件服务未配置，分享链接邮件发送不可用")
	}
	mt := metrics.New()

	//  初始化 Repositories
	redisCache := cache.NewRedisCache(redisClient)
	userRepo := repositories.NewUserRepository(mysqlDB)
	fileRepo := repositories.NewFileRepository(mysqlDB)
	shareRepo := repositories.NewShareRepository(mysqlDB)

	//  初始化 Services
	tm := explorer.NewTransactionManager(mysqlDB)
	authService := admin.NewAuthService(userRepo, m, cfg)
	userService := admin.NewUserService(userRepo, redisCache)
	fileService := explorer.NewFileService(fileRepo, shareRepo, tm, ss, cfg)
	shareService := share.NewShareService(shareRepo, fileRepo, userRepo, ss, m, mt, cfg)

	//  初始化 Handlers，注册路由
	engine := router.InitRouter(router.Handlers{
		Auth:  handlers.NewAuthHandler(authService),
		User:  handlers.NewUserHandler(userService),
		File:  handlers.NewFileHandler(fileService),
		Share: handlers.NewShareHandler(shareService),
	}, redisCache, mt, cfg)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           gzhttp.GzipHandler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		router:      engine,
		httpServer:  httpServer,
		db:          mysqlDB,
		redisClient: redisClient,
	}, nil
}

// Run 启动 HTTP 服务器，ctx 取消后优雅关机
func (s *Server) Run(ctx context.Context) error {
	// 确保在应用关闭时，所有连接都被释放
	defer setup.CloseMySQL(s.db)
	defer setup.CloseRedis(s.redisClient)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server is running", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited gracefully")
	return nil
}
