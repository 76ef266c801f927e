package repository

import (
	"context"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

// カート表示用。商品名と画像は商品側から引く（論理削除済みでも出す）。
func (r *OrderItemGormRepository) ListCartLines(ctx context.Context, orderID int64) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.product_id, p.name, oi.quantity, oi.price, p.image_url").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("oi.order_id = ?", orderID).
		Order("oi.id asc").
		Scan(&lines).Error
	if err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

// 同一商品は数量加算（1文で行う）
func (r *OrderItemGormRepository) UpsertAdd(ctx context.Context, orderID int64, productID int64, qty int64, price decimal.Decimal) (model.OrderItem, error) {
	item := model.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  qty,
		Price:     price,
	}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
				DoUpdates: clause.Set{
					{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("order_items.quantity + EXCLUDED.quantity")},
					{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("EXCLUDED.updated_at")},
				},
			},
			clause.Returning{},
		).
		Create(&item).Error
	if err != nil {
		return model.OrderItem{}, translateErr(err)
	}
	return item, nil
}

func (r *OrderItemGormRepository) SetQuantity(ctx context.Context, orderID int64, productID int64, qty int64) (model.OrderItem, error) {
	var item model.OrderItem
	res := r.db.WithContext(ctx).
		Model(&item).
		Clauses(clause.Returning{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return model.OrderItem{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.OrderItem{}, repo.ErrNotFound
	}
	return item, nil
}

func (r *OrderItemGormRepository) Delete(ctx context.Context, orderID int64, productID int64) (model.OrderItem, error) {
	var item model.OrderItem
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&item)
	if res.Error != nil {
		return model.OrderItem{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.OrderItem{}, repo.ErrNotFound
	}
	return item, nil
}
