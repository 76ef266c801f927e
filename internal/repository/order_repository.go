package repository

import (
	"context"
	"time"

	"eshop/internal/domain/model"

	"github.com/shopspring/decimal"
)

type AdminOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 行ロック付き（tx内で使う）
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	// カート（pending注文）の取得。無ければErrNotFound。
	FindPendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error)
	// 同上、行ロック付き（変更系のtxで使う）
	FindPendingByCustomerIDForUpdate(ctx context.Context, customerID int64) (model.Order, error)
	// カートを取得し、無ければ作る。並行実行でも1件に収束する。
	GetOrCreatePendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error)

	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	ListByCustomerIDs(ctx context.Context, customerIDs []int64) ([]model.Order, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	// pendingを除いた直近の注文
	ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error)

	// pendingへの変更で同一顧客のpendingが既にあればErrConflict
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// checkout時の配送先を保存する
	SetShipping(ctx context.Context, orderID int64, shipping model.ShippingInfo) error
	// 明細から合計を再計算して保存する
	RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error)

	// 売上合計（pending/cancelled以外）
	SalesTotal(ctx context.Context) (decimal.Decimal, error)
	CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
}
