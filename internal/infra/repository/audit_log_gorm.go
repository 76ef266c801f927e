package repository

import (
	"context"
	"fmt"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

// 管理操作の監査ログ。書き込みは在庫・商品・注文状態の更新と同じtxで行う。
type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	if !entry.Action.Valid() {
		return fmt.Errorf("%w: audit action %q", repo.ErrInvalid, entry.Action)
	}
	if !entry.ResourceType.Valid() {
		return fmt.Errorf("%w: audit resource type %q", repo.ErrInvalid, entry.ResourceType)
	}
	if entry.ActorID <= 0 || entry.ResourceID <= 0 {
		return fmt.Errorf("%w: audit actor/resource id", repo.ErrInvalid)
	}
	return translateErr(r.db.WithContext(ctx).Create(&entry).Error)
}

func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	// 種別は定義済みの値だけで絞る
	if f.Action != nil && !f.Action.Valid() {
		return nil, fmt.Errorf("%w: audit action %q", repo.ErrInvalid, *f.Action)
	}
	if f.ResourceType != nil && !f.ResourceType.Valid() {
		return nil, fmt.Errorf("%w: audit resource type %q", repo.ErrInvalid, *f.ResourceType)
	}

	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if f.ActorID != nil {
		q = q.Where("actor_id = ?", *f.ActorID)
	}
	if f.Action != nil {
		q = q.Where("action = ?", string(*f.Action))
	}
	if f.ResourceType != nil {
		q = q.Where("resource_type = ?", string(*f.ResourceType))
	}
	if f.ResourceID != nil {
		q = q.Where("resource_id = ?", *f.ResourceID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}

	limit := f.Limit
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}
	offset := max(f.Offset, 0)

	var logs []model.AuditLog
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
