package repository

import (
	"context"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫を「現在値」に更新し、調整履歴も残す。tx内で呼ばれる前提。
func (r *InventoryGormRepository) SetStockWithAdjustment(ctx context.Context, actorID int64, productID int64, newStock int64, reason string) (int64, error) {
	//現在の在庫をロックして取得
	var p model.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, productID).Error; err != nil {
		return 0, translateErr(err)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", newStock)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, repo.ErrNotFound
	}

	adj := model.InventoryAdjustment{
		ProductID: productID,
		ActorID:   actorID,
		Delta:     newStock - p.StockQuantity,
		Reason:    reason,
	}
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return 0, err
	}
	return p.StockQuantity, nil
}
