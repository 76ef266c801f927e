package repository

import (
	"context"
	"strings"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerGormRepository struct {
	db *gorm.DB
}

// DI
func NewCustomerGormRepository(db *gorm.DB) repo.CustomerRepository {
	return &customerGormRepository{db: db}
}

// IDで顧客を1件取得
func (r *customerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return model.Customer{}, translateErr(err)
	}
	return c, nil
}

var customerSortColumns = map[string]string{
	"name":              "name",
	"email":             "email",
	"registration_date": "registration_date",
}

// 管理者用の顧客一覧（name/emailの部分一致）
func (r *customerGormRepository) List(ctx context.Context, q repo.CustomerListQuery) ([]model.Customer, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}

	tx := r.db.WithContext(ctx).Model(&model.Customer{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Customer{}, 0, err
	}

	col, ok := customerSortColumns[q.Sort]
	if !ok {
		col = "id"
	}

	var items []model.Customer
	offset := (q.Page - 1) * q.Limit
	err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Desc}).
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Customer{}, 0, err
	}
	return items, total, nil
}

func (r *customerGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// emailで購読登録。既存なら opt-in を立てるだけ。
func (r *customerGormRepository) SubscribeNewsletter(ctx context.Context, email string) (model.Customer, error) {
	c := model.Customer{
		Email:           email,
		Role:            model.RoleCustomer,
		IsActive:        true,
		NewsletterOptIn: true,
	}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{"newsletter_opt_in", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(&c).Error
	if err != nil {
		return model.Customer{}, translateErr(err)
	}
	return c, nil
}

func (r *customerGormRepository) UnsubscribeNewsletter(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("email = ?", email).
		Update("newsletter_opt_in", false)

	if res.Error != nil {
		return res.Error
	}
	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
