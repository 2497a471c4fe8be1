package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/3Eeeecho/go-tinybox/cmd/server"
	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"github.com/3Eeeecho/go-tinybox/internal/setup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Tiny Box API
// @version 1.0
// @description 文件上传与分享服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:          "tinybox",
		Short:        "Tiny Box - 文件上传与分享服务",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "配置文件路径")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构并校验",
		RunE:  runMigrate,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载配置并初始化日志系统
func bootstrap(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置出错: %w", err)
	}

	for _, p := range []string{cfg.Log.OutputPath, cfg.Log.ErrorPath} {
		if p == "" || p == "stdout" || p == "stderr" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("初始化日志目录失败: %w", err)
		}
	}
	logger.InitLogger(cfg.Log.OutputPath, cfg.Log.ErrorPath, cfg.Log.Level)
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() // 确保在应用退出时刷新所有缓冲的日志条目

	logger.Info("启动 Tiny Box...", zap.String("baseURL", cfg.Server.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		logger.Error("无法启动应用程序", zap.Error(err))
		return err
	}
	if err := srv.Run(ctx); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		return err
	}

	logger.Info("Tiny Box 已退出。")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := setup.InitMySQL(&cfg.MySQL)
	if err != nil {
		return err
	}
	defer setup.CloseMySQL(db)

	if err := setup.AutoMigrate(db); err != nil {
		return err
	}
	return setup.VerifySchema(db)
}
