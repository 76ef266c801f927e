package model

import "time"

type BlogAuthor struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Bio   string `gorm:"type:text" json:"bio"`
}

type BlogCategory struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// 記事。PublishedAtが未来のものは公開前として扱う。
type BlogPost struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Excerpt     string    `gorm:"type:text" json:"excerpt"`
	AuthorID    *int64    `gorm:"index" json:"author_id"`
	CategoryID  *int64    `gorm:"index" json:"category_id"`
	PublishedAt time.Time `gorm:"not null;index" json:"published_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Author   *BlogAuthor   `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Category *BlogCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

// 一覧・詳細用に著者名とカテゴリ名を結合した行
type BlogPostRow struct {
	ID           int64
	Slug         string
	Title        string
	Content      string
	Excerpt      string
	AuthorName   string
	CategoryName string
	PublishedAt  time.Time
	UpdatedAt    time.Time
}
