package usecase_test

import (
	"context"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used")
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used")
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used")
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) List(ctx context.Context, q repo.CustomerListQuery) ([]model.Customer, int64, error) {
	args := m.Called(ctx, q)
	cs, _ := args.Get(0).([]model.Customer)
	return cs, args.Get(1).(int64), args.Error(2)
}

func (m *CustomerRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CustomerRepoMock) SubscribeNewsletter(ctx context.Context, email string) (model.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) UnsubscribeNewsletter(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// ダッシュボード・顧客一覧で使う分だけ実装
type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, id int64) (model.Order, error) {
	panic("not used")
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Order, error) {
	panic("not used")
}

func (m *OrderRepoMock) FindPendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error) {
	panic("not used")
}

func (m *OrderRepoMock) FindPendingByCustomerIDForUpdate(ctx context.Context, customerID int64) (model.Order, error) {
	panic("not used")
}

func (m *OrderRepoMock) GetOrCreatePendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error) {
	panic("not used")
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	panic("not used")
}

func (m *OrderRepoMock) ListByCustomerIDs(ctx context.Context, ids []int64) ([]model.Order, error) {
	args := m.Called(ctx, ids)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	panic("not used")
}

func (m *OrderRepoMock) ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error) {
	args := m.Called(ctx, limit)
	rs, _ := args.Get(0).([]model.RecentOrder)
	return rs, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	panic("not used")
}

func (m *OrderRepoMock) SetShipping(ctx context.Context, id int64, shipping model.ShippingInfo) error {
	panic("not used")
}

func (m *OrderRepoMock) RecalculateTotal(ctx context.Context, id int64) (decimal.Decimal, error) {
	panic("not used")
}

func (m *OrderRepoMock) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(decimal.Decimal)
	return d, args.Error(1)
}

func (m *OrderRepoMock) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(map[model.OrderStatus]int64)
	return c, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.Address)
	return out, args.Error(1)
}

func (m *AddressRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, id int64) (model.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) FindDefaultByCustomerID(ctx context.Context, customerID int64) (model.Address, error) {
	args := m.Called(ctx, customerID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, a model.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, customerID, addressID int64) error {
	args := m.Called(ctx, customerID, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, customerID, addressID int64) error {
	args := m.Called(ctx, customerID, addressID)
	return args.Error(0)
}

type BlogRepoMock struct{ mock.Mock }

func (m *BlogRepoMock) ListPublished(ctx context.Context, q repo.BlogPostListQuery) ([]model.BlogPostRow, int64, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]model.BlogPostRow)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *BlogRepoMock) FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (model.BlogPostRow, error) {
	args := m.Called(ctx, slug, now)
	r, _ := args.Get(0).(model.BlogPostRow)
	return r, args.Error(1)
}
