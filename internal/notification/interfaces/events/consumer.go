// Package events 订阅订单事件并触发通知。
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aurorajewels/storefront/internal/notification/application"
	orderdomain "github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/mq"
)

// NewOrderEventHandler 返回订单主题的消费处理函数。
// 同一主题上还有状态变更等其他事件，按消息 key 分流，
// 不认识的 key 直接提交跳过。
func NewOrderEventHandler(svc *application.NotificationService) mq.Handler {
	return func(ctx context.Context, key, value []byte) error {
		switch string(key) {
		case "order.confirmed":
			var event orderdomain.OrderConfirmedEvent
			if err := json.Unmarshal(value, &event); err != nil {
				// 畸形消息重投也救不回来，记日志后提交
				logger.Error(ctx, "Malformed order confirmed event", "error", err)
				return nil
			}
			if err := svc.HandleOrderConfirmed(ctx, event); err != nil {
				return fmt.Errorf("handle order confirmed: %w", err)
			}
			return nil
		default:
			return nil
		}
	}
}
