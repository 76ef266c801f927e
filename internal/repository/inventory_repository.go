package repository

import "context"

type InventoryRepository interface {
	// 在庫を現在値に置き換えて調整履歴を残す。戻り値は変更前の在庫。
	SetStockWithAdjustment(ctx context.Context, actorID int64, productID int64, newStock int64, reason string) (int64, error)
}
