package model

import "time"

// 注文ステータス変更イベント（コミット後に送信）
type OrderStatusChanged struct {
	EventID    string      `json:"event_id"`
	OrderID    int64       `json:"order_id"`
	CustomerID int64       `json:"customer_id"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
	ActorID    int64       `json:"actor_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}
