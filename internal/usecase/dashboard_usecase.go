package usecase

import (
	"context"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

// 管理画面トップの集計
type DashboardUsecase struct {
	orders    repo.OrderRepository
	customers repo.CustomerRepository
	products  repo.ProductRepository
}

func NewDashboardUsecase(orders repo.OrderRepository, customers repo.CustomerRepository, products repo.ProductRepository) *DashboardUsecase {
	return &DashboardUsecase{orders: orders, customers: customers, products: products}
}

// カート（pending）は注文数に含めない
func (u *DashboardUsecase) TotalOrders(ctx context.Context) (int64, error) {
	counts, err := u.orders.CountByStatus(ctx)
	if err != nil {
		return 0, errInternal(ctx, "dashboard.orders", err)
	}
	var n int64
	for st, c := range counts {
		if st == model.OrderStatusPending {
			continue
		}
		n += c
	}
	return n, nil
}

func (u *DashboardUsecase) TotalCustomers(ctx context.Context) (int64, error) {
	n, err := u.customers.Count(ctx)
	if err != nil {
		return 0, errInternal(ctx, "dashboard.customers", err)
	}
	return n, nil
}

func (u *DashboardUsecase) TotalProducts(ctx context.Context) (int64, error) {
	n, err := u.products.Count(ctx)
	if err != nil {
		return 0, errInternal(ctx, "dashboard.products", err)
	}
	return n, nil
}

// pending/cancelledを除いた売上
func (u *DashboardUsecase) TotalSales(ctx context.Context) (string, error) {
	total, err := u.orders.SalesTotal(ctx)
	if err != nil {
		return "", errInternal(ctx, "dashboard.sales", err)
	}
	return money(total), nil
}

type RecentOrderOutput struct {
	OrderID      int64     `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	TotalAmount  string    `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *DashboardUsecase) RecentOrders(ctx context.Context, limit int) ([]RecentOrderOutput, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}
	rows, err := u.orders.ListRecent(ctx, limit)
	if err != nil {
		return nil, errInternal(ctx, "dashboard.recent", err)
	}
	out := make([]RecentOrderOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecentOrderOutput{
			OrderID:      r.OrderID,
			CustomerName: r.CustomerName,
			Status:       string(r.Status),
			TotalAmount:  money(r.TotalAmount),
			CreatedAt:    r.CreatedAt,
		})
	}
	return out, nil
}
