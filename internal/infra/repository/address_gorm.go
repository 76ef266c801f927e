package repository

import (
	"context"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

func (r *addressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.Address{}, translateErr(err)
	}
	return address, nil
}

func (r *addressGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error) {
	list := []model.Address{}
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, id ASC").
		Find(&list).Error; err != nil {
		return []model.Address{}, err
	}
	return list, nil
}

func (r *addressGormRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).Where("id = ?", addressID).First(&a).Error; err != nil {
		return model.Address{}, translateErr(err)
	}
	return a, nil
}

func (r *addressGormRepository) FindDefaultByCustomerID(ctx context.Context, customerID int64) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_default = TRUE", customerID).
		First(&a).Error; err != nil {
		return model.Address{}, translateErr(err)
	}
	return a, nil
}

// 本人の行だけ更新する（IsDefaultはSetDefaultで変える）
func (r *addressGormRepository) Update(ctx context.Context, address model.Address) error {
	res := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ? AND customer_id = ?", address.ID, address.CustomerID).
		Select("name", "phone", "line1", "line2", "city", "state", "zip_code").
		Updates(address)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *addressGormRepository) Delete(ctx context.Context, customerID, addressID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Delete(&model.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 全部falseにしてから指定の1件だけtrue
func (r *addressGormRepository) SetDefault(ctx context.Context, customerID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Address{}).
			Where("customer_id = ? AND is_default = TRUE", customerID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Address{}).
			Where("id = ? AND customer_id = ?", addressID, customerID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
