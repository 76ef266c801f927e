package repository

import (
	"context"
	"errors"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

// 参照用（ロックなし）
func (r *OrderGormRepository) FindPendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, model.OrderStatusPending).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

// 顧客のpending注文を行ロック付きで取得
func (r *OrderGormRepository) FindPendingByCustomerIDForUpdate(ctx context.Context, customerID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND status = ?", customerID, model.OrderStatusPending).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateErr(err)
	}
	return o, nil
}

// 探す→無ければ作る。作成は ON CONFLICT DO NOTHING なので、
// 並行に作られた場合はtxを壊さずに0件となり、作られた方を読み直す。
func (r *OrderGormRepository) GetOrCreatePendingByCustomerID(ctx context.Context, customerID int64) (model.Order, error) {
	o, err := r.FindPendingByCustomerIDForUpdate(ctx, customerID)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, err
	}

	newOrder := model.Order{
		CustomerID:  customerID,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.Zero,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}},
			// 部分ユニークインデックスの推論に使うので定数で書く
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "status = 'pending'"}}},
			DoNothing:   true,
		}).
		Create(&newOrder)
	if res.Error != nil {
		return model.Order{}, translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.FindPendingByCustomerIDForUpdate(ctx, customerID)
	}
	return newOrder, nil
}

func (r *OrderGormRepository) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// 顧客一覧に注文を添えるため、複数顧客分をまとめて取る
func (r *OrderGormRepository) ListByCustomerIDs(ctx context.Context, customerIDs []int64) ([]model.Order, error) {
	orders := []model.Order{}
	if len(customerIDs) == 0 {
		return orders, nil
	}
	err := r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//customer_id 絞り込み
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// ダッシュボード用の直近注文（顧客名付き）
func (r *OrderGormRepository) ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	var rows []model.RecentOrder
	err := r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, c.name AS customer_name, o.status, o.total_amount, o.created_at").
		Joins("JOIN customers c ON c.id = o.customer_id").
		Where("o.status <> ?", model.OrderStatusPending).
		Order("o.created_at desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []model.RecentOrder{}, err
	}
	return rows, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 空文字も上書きしたいのでmapで渡す
func (r *OrderGormRepository) SetShipping(ctx context.Context, orderID int64, shipping model.ShippingInfo) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"shipping_name":     shipping.Name,
			"shipping_email":    shipping.Email,
			"shipping_phone":    shipping.Phone,
			"shipping_address":  shipping.Address,
			"shipping_city":     shipping.City,
			"shipping_state":    shipping.State,
			"shipping_zip_code": shipping.ZipCode,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細の SUM(quantity*price) を total_amount に書き戻す
func (r *OrderGormRepository) RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var o model.Order
	res := r.db.WithContext(ctx).
		Model(&o).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "total_amount"}}}).
		Where("id = ?", orderID).
		Update("total_amount", gorm.Expr(
			"(SELECT COALESCE(SUM(quantity * price), 0) FROM order_items WHERE order_id = ?)", orderID,
		))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, repo.ErrNotFound
	}
	return o.TotalAmount, nil
}

// 確定済みの売上合計
func (r *OrderGormRepository) SalesTotal(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status NOT IN ?", []model.OrderStatus{model.OrderStatusPending, model.OrderStatusCancelled}).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *OrderGormRepository) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[model.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
