package repository

import (
	"context"
	"time"

	"eshop/internal/domain/model"
)

type BlogPostListQuery struct {
	Page     int
	Limit    int
	Category string
	// この時刻までに公開されたものだけ
	Now time.Time
}

type BlogRepository interface {
	ListPublished(ctx context.Context, q BlogPostListQuery) ([]model.BlogPostRow, int64, error)
	// 公開前・存在しないslugはErrNotFound
	FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (model.BlogPostRow, error)
}
