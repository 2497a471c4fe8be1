package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper" // 导入 Viper
)

// Config 结构体包含所有应用的配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"` // `mapstructure` 标签用于Viper绑定结构体
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	AliyunOSS AliyunOSSConfig `mapstructure:"aliyun_oss"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Email     EmailConfig     `mapstructure:"email"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"` // 对外可访问的站点地址，用于拼接分享链接
	Mode    string `mapstructure:"mode"`     // gin 运行模式: debug / release / test
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

type AliyunOSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"` // 例如: oss-cn-hangzhou.aliyuncs.com
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// S3Config 兼容 S3 协议的对象存储配置
type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // 为空时使用 AWS 默认域名
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

type StorageConfig struct {
	Type string `mapstructure:"type"` // minio / aliyun_oss / s3
}

// EmailConfig SMTP 发信配置，发件地址和凭证缺一则视为未配置
type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromEmail    string `mapstructure:"from_email"`
}

// Enabled 发件地址与凭证均已配置
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.FromEmail != "" && e.SMTPPassword != ""
}

// RateLimitConfig 匿名访问分享页的限流配置
type RateLimitConfig struct {
	ShareRequests int           `mapstructure:"share_requests"` // 窗口内允许的请求数，<=0 表示不限流
	ShareWindow   time.Duration `mapstructure:"share_window"`
}

// zap日志配置
type LogConfig struct {
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
	Level      string `mapstructure:"level"`
}

const (
	StorageTypeMinIO     = "minio"
	StorageTypeAliyunOSS = "aliyun_oss"
	StorageTypeS3        = "s3"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("storage.type", StorageTypeMinIO)
	v.SetDefault("minio.bucket_name", "files")
	v.SetDefault("jwt.expires_in", 24*time.Hour)
	v.SetDefault("jwt.issuer", "go-tinybox")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("rate_limit.share_requests", 60)
	v.SetDefault("rate_limit.share_window", time.Minute)
	v.SetDefault("log.output_path", "logs/app.log")
	v.SetDefault("log.error_path", "logs/error.log")
	v.SetDefault("log.level", "info")
}

// LoadConfig 加载配置
// configFile 为空时按默认路径查找 config.yaml
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")           // 配置文件名 (不带扩展名)
		v.SetConfigType("yaml")             // 配置文件类型
		v.AddConfigPath(".")                // 在当前目录查找配置文件
		v.AddConfigPath("./configs")        // 也可以添加其他路径，例如 ./configs/
		v.AddConfigPath("/etc/go-tinybox/") // 生产环境常见路径
	}

	// 读取环境变量，例如 GO_TINYBOX_SERVER_PORT 对应 server.port
	v.SetEnvPrefix("GO_TINYBOX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// 配置文件存在但格式错误
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件未找到不是致命错误，可以依赖环境变量和默认值
		log.Println("Warning: config file not found, using environment variables or default values.")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 启动时校验必需配置，缺失即为配置错误
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("配置缺失: jwt.secret_key")
	}
	if c.Server.BaseURL == "" {
		return errors.New("配置缺失: server.base_url")
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	switch c.Storage.Type {
	case StorageTypeMinIO, StorageTypeAliyunOSS, StorageTypeS3:
	default:
		return fmt.Errorf("未知的存储服务类型: %q", c.Storage.Type)
	}
	return nil
}
