package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 管理画面の直近注文
type RecentOrder struct {
	OrderID      int64
	CustomerName string
	Status       OrderStatus
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
}
