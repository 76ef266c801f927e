package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。(order_id, product_id)は一意。
// Priceは追加時点の価格のスナップショット。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;uniqueIndex:ux_order_items_order_product,priority:1" json:"order_id"`
	ProductID int64           `gorm:"not null;index;uniqueIndex:ux_order_items_order_product,priority:2" json:"product_id"`
	Quantity  int64           `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// カート表示用（order_items + products）
type CartLine struct {
	ProductID int64
	Name      string
	Quantity  int64
	Price     decimal.Decimal
	ImageURL  string
}
