// Package application 实现订单确认通知服务。
package application

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/aurorajewels/storefront/internal/notification/domain"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/metrics"
)

var confirmationTmpl = template.Must(template.New("order_confirmed").Parse(`
<h2>Thank you for your order!</h2>
<p>Order <strong>{{.OrderNumber}}</strong> has been confirmed.</p>
<table cellpadding="6" border="0">
{{range .Items}}<tr><td>{{.Title}}</td><td>x{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Total: <strong>{{.Total}} {{.Currency}}</strong></p>
<p>We will email you again when your order ships.</p>
`))

// NotificationService 通知服务。
// 消费订单确认事件，渲染邮件并记录发送结果。
type NotificationService struct {
	repo    domain.NotificationRepository
	sender  domain.Sender
	metrics *metrics.Metrics
}

// NewNotificationService 创建通知服务实例
func NewNotificationService(repo domain.NotificationRepository, sender domain.Sender, m *metrics.Metrics) *NotificationService {
	return &NotificationService{repo: repo, sender: sender, metrics: m}
}

// HandleOrderConfirmed 处理订单确认事件。
// 无邮箱的事件直接跳过；发送失败会记录 FAILED 行并返回错误，
// 由消费端决定是否重投。
func (s *NotificationService) HandleOrderConfirmed(ctx context.Context, event orderdomain.OrderConfirmedEvent) error {
	if event.Email == "" {
		logger.Warn(ctx, "Order confirmed event without email", "order_number", event.OrderNumber)
		return nil
	}

	var body strings.Builder
	if err := confirmationTmpl.Execute(&body, event); err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	n := &domain.Notification{
		Channel: domain.ChannelEmail,
		Target:  event.Email,
		Subject: fmt.Sprintf("Order %s confirmed", event.OrderNumber),
		Content: body.String(),
		Status:  domain.StatusPending,
		Ref:     event.OrderNumber,
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	if err := s.sender.Send(ctx, n.Target, n.Subject, n.Content); err != nil {
		n.Status = domain.StatusFailed
		n.Error = err.Error()
		if saveErr := s.repo.Save(ctx, n); saveErr != nil {
			logger.Error(ctx, "Failed to record notification failure", "ref", n.Ref, "error", saveErr)
		}
		return err
	}

	n.Status = domain.StatusSent
	if err := s.repo.Save(ctx, n); err != nil {
		logger.Error(ctx, "Failed to record notification success", "ref", n.Ref, "error", err)
	}

	if s.metrics != nil {
		s.metrics.EmailsSent.Inc()
	}
	return nil
}
