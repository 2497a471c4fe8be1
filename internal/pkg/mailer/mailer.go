package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/3Eeeecho/go-tinybox/internal/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrDisabled 发信配置不完整时返回
var ErrDisabled = errors.New("mailer disabled")

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
	Enabled() bool
}

// New 根据配置返回 SMTP 发信器，配置不完整时返回禁用的发信器
func New(cfg *config.EmailConfig) Mailer {
	if !cfg.Enabled() {
		logger.Warn("邮件服务未配置，发送邮件功能不可用")
		return disabledMailer{}
	}
	logger.Info("邮件服务已启用", zap.String("smtp_host", cfg.SMTPHost), zap.String("from", cfg.FromEmail))
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg *config.EmailConfig
}

func (m *SMTPMailer) Enabled() bool { return true }

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	user := m.cfg.SMTPUser
	if user == "" {
		user = m.cfg.FromEmail
	}
	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, user, m.cfg.SMTPPassword)

	// gomail 不支持 context，在协程中发送并等待
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("SMTP 发送失败: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type disabledMailer struct{}

func (disabledMailer) Enabled() bool { return false }

func (disabledMailer) Send(context.Context, string, string, string) error {
	return ErrDisabled
}
