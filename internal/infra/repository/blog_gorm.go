package repository

import (
	"context"
	"strings"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"gorm.io/gorm"
)

type BlogGormRepository struct {
	db *gorm.DB
}

func NewBlogGormRepository(db *gorm.DB) *BlogGormRepository {
	return &BlogGormRepository{db: db}
}

const blogRowColumns = "p.id, p.slug, p.title, p.excerpt, " +
	"COALESCE(a.name, '') AS author_name, COALESCE(c.name, '') AS category_name, " +
	"p.published_at, p.updated_at"

// 著者・カテゴリは無くても記事は出す
func (r *BlogGormRepository) published(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("blog_posts AS p").
		Joins("LEFT JOIN blog_authors a ON a.id = p.author_id").
		Joins("LEFT JOIN blog_categories c ON c.id = p.category_id").
		Where("p.published_at <= ?", now)
}

// 新しい順。本文は一覧では返さない。
func (r *BlogGormRepository) ListPublished(ctx context.Context, q repo.BlogPostListQuery) ([]model.BlogPostRow, int64, error) {
	scope := func() *gorm.DB {
		tx := r.published(ctx, q.Now)
		if c := strings.TrimSpace(q.Category); c != "" {
			tx = tx.Where("c.name = ?", c)
		}
		return tx
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return []model.BlogPostRow{}, 0, err
	}

	rows := []model.BlogPostRow{}
	offset := (q.Page - 1) * q.Limit
	err := scope().
		Select(blogRowColumns).
		Order("p.published_at desc, p.id desc").
		Offset(offset).
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return []model.BlogPostRow{}, 0, err
	}
	return rows, total, nil
}

func (r *BlogGormRepository) FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (model.BlogPostRow, error) {
	var rows []model.BlogPostRow
	err := r.published(ctx, now).
		Select(blogRowColumns+", p.content").
		Where("p.slug = ?", slug).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return model.BlogPostRow{}, err
	}
	if len(rows) == 0 {
		return model.BlogPostRow{}, repo.ErrNotFound
	}
	return rows[0], nil
}
