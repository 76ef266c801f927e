package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatusは前後空白・大文字小文字を無視して語彙に一致するかを見る。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// strictモードで許可する遷移
var strictTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionはfrom→toが許されるか。strict=falseなら常にtrue。
func CanTransition(from, to OrderStatus, strict bool) bool {
	if !strict || from == to {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// pendingの注文は顧客ごとに最大1件で、それがカートを兼ねる。
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID  int64           `gorm:"not null;index" json:"customer_id"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	// checkout時点の配送先（カートの間は空）
	Shipping ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`

	// 注文削除で明細も消える
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (o Order) IsCart() bool {
	return o.Status == OrderStatusPending
}

// 注文に焼き付ける配送先。住所帳を後から変えても注文側は変わらない。
type ShippingInfo struct {
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	Address string `gorm:"type:varchar(512)" json:"address"`
	City    string `gorm:"type:varchar(255)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	ZipCode string `gorm:"type:varchar(20)" json:"zip_code"`
}

func (s ShippingInfo) IsZero() bool {
	return s == ShippingInfo{}
}
