// Package sender 提供通知发送的具体实现。
package sender

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/aurorajewels/storefront/internal/notification/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/utils"
)

// SMTPSender 基于 SMTP 的邮件发送器
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender 创建 SMTP 发送器实例
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

// Send 发送 HTML 邮件
func (s *SMTPSender) Send(ctx context.Context, target, subject, content string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, target, subject, content))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	err := utils.Retry(ctx, 3, 500*time.Millisecond, func() error {
		return smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{target}, msg)
	})
	if err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	logger.Info(ctx, "Email sent", "to", target, "subject", subject)
	return nil
}

// LogSender 只写日志不真正外发，开发环境使用
type LogSender struct{}

// Send 把邮件内容打到日志
func (LogSender) Send(ctx context.Context, target, subject, content string) error {
	logger.Info(ctx, "Email (log only)", "to", target, "subject", subject, "bytes", len(content))
	return nil
}

var _ domain.Sender = (*SMTPSender)(nil)
var _ domain.Sender = LogSender{}
