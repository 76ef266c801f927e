package usecase

import (
	"context"

	"eshop/internal/domain/model"
	"eshop/internal/logger"

	"go.uber.org/zap"
)

// OrderEventPublisher は注文ステータス変更の通知先（Kafkaなど）。
type OrderEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChanged) error
}

// コミット後に呼ぶ。送信失敗は注文更新を巻き戻さずログだけ残す。
func publishStatusChanged(ctx context.Context, pub OrderEventPublisher, ev model.OrderStatusChanged) {
	if pub == nil {
		return
	}
	if err := pub.PublishOrderStatusChanged(ctx, ev); err != nil {
		logger.FromCtx(ctx).Warn("publish order status event failed",
			zap.Int64("order_id", ev.OrderID),
			zap.String("to", string(ev.To)),
			zap.Error(err),
		)
	}
}
