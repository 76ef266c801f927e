package repository

import (
	"context"

	"eshop/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderItemRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListCartLines(ctx context.Context, orderID int64) ([]model.CartLine, error)

	// 同じ商品があれば数量を加算、なければ価格を記録して作成。既存行の価格は変えない。
	UpsertAdd(ctx context.Context, orderID int64, productID int64, qty int64, price decimal.Decimal) (model.OrderItem, error)
	// 数量を置き換える。明細が無ければErrNotFound。
	SetQuantity(ctx context.Context, orderID int64, productID int64, qty int64) (model.OrderItem, error)
	// 削除した明細を返す。無ければErrNotFound。
	Delete(ctx context.Context, orderID int64, productID int64) (model.OrderItem, error)
}
