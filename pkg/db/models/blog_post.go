package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an editorial entry surfaced on the storefront.
type BlogPost struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	Title       string     `gorm:"column:title;not null"`
	Excerpt     string     `gorm:"column:excerpt;not null;default:''"`
	Body        string     `gorm:"column:body;not null"`
	Author      string     `gorm:"column:author;not null"`
	CoverImage  *string    `gorm:"column:cover_image"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
