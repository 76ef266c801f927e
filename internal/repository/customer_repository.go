package repository

import (
	"context"

	"eshop/internal/domain/model"
)

type CustomerListQuery struct {
	Page  int
	Limit int
	Q     string
	Sort  string // name / email / registration_date
	Desc  bool
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	List(ctx context.Context, q CustomerListQuery) ([]model.Customer, int64, error)
	Count(ctx context.Context) (int64, error)

	// 購読。未登録のメールなら顧客を作る。
	SubscribeNewsletter(ctx context.Context, email string) (model.Customer, error)
	// 解除。未登録ならErrNotFound。
	UnsubscribeNewsletter(ctx context.Context, email string) error
}
