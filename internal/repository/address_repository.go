package repository

import (
	"context"

	"eshop/internal/domain/model"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	// 作成後はIDなどが埋まったものを返す
	Create(ctx context.Context, address model.Address) (model.Address, error)

	// デフォルト→古い順
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error)

	// 無ければErrNotFound（所有チェックは呼び出し側）
	FindByID(ctx context.Context, addressID int64) (model.Address, error)
	// デフォルト住所。未設定ならErrNotFound。
	FindDefaultByCustomerID(ctx context.Context, customerID int64) (model.Address, error)

	// 本人の住所のみ更新・削除できる。該当なしはErrNotFound。
	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, customerID, addressID int64) error

	// デフォルト住所の切り替え
	SetDefault(ctx context.Context, customerID, addressID int64) error
}
