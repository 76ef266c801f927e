package usecase

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type BlogPostOutput struct {
	ID           int64     `json:"post_id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Content      string    `json:"content,omitempty"`
	AuthorName   string    `json:"author_name"`
	CategoryName string    `json:"category_name"`
	PublishedAt  time.Time `json:"published_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BlogPostListOutput struct {
	Items []BlogPostOutput `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type ListBlogPostsInput struct {
	Page     int
	Limit    int
	Category string
}

func toBlogPostOutput(r model.BlogPostRow) BlogPostOutput {
	return BlogPostOutput{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		Excerpt:      r.Excerpt,
		Content:      r.Content,
		AuthorName:   r.AuthorName,
		CategoryName: r.CategoryName,
		PublishedAt:  r.PublishedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// 公開済み記事の参照のみ
type BlogUsecase struct {
	posts repo.BlogRepository
}

func NewBlogUsecase(posts repo.BlogRepository) *BlogUsecase {
	return &BlogUsecase{posts: posts}
}

func (u *BlogUsecase) ListPosts(ctx context.Context, in ListBlogPostsInput) (BlogPostListOutput, error) {
	if in.Page < 1 {
		return BlogPostListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 50 {
		return BlogPostListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	category := strings.TrimSpace(in.Category)
	if len(category) > 100 {
		return BlogPostListOutput{}, NewHTTPError(http.StatusBadRequest, "category too long")
	}

	rows, total, err := u.posts.ListPublished(ctx, repo.BlogPostListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Category: category,
		Now:      time.Now(),
	})
	if err != nil {
		return BlogPostListOutput{}, errInternal(ctx, "blog.list", err)
	}

	out := BlogPostListOutput{Items: make([]BlogPostOutput, 0, len(rows)), Total: total, Page: in.Page, Limit: in.Limit}
	for _, r := range rows {
		out.Items = append(out.Items, toBlogPostOutput(r))
	}
	return out, nil
}

// 公開前の記事も存在しないものとして404
func (u *BlogUsecase) GetPost(ctx context.Context, slug string) (BlogPostOutput, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if len(slug) > 255 || !slugRe.MatchString(slug) {
		return BlogPostOutput{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	row, err := u.posts.FindPublishedBySlug(ctx, slug, time.Now())
	if errors.Is(err, repo.ErrNotFound) {
		return BlogPostOutput{}, errNotFound("post not found")
	}
	if err != nil {
		return BlogPostOutput{}, errInternal(ctx, "blog.get", err)
	}
	return toBlogPostOutput(row), nil
}
