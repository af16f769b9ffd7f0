// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft           PostStatus = "draft"
	PostStatusPendingApproval PostStatus = "pending_approval"
	PostStatusScheduled       PostStatus = "scheduled"
	PostStatusPublished       PostStatus = "published"
)

// Post is a publishable article. Content is sanitized HTML; posts
// authored in Markdown are rendered to HTML on save.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	SectionID     uuid.UUID  `json:"section_id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id,omitempty"`
	AuthorID      uuid.UUID  `json:"author_id"`
	MainImageURL  *string    `json:"main_image_url,omitempty"`
	IsFeatured    bool       `json:"is_featured"`
	Download      *string    `json:"download,omitempty"` // object key of the downloadable file
	PriceCents    *int       `json:"price_cents,omitempty"`
	IsPremium     bool       `json:"is_premium"`
	Keywords      []string   `json:"keywords"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by listing queries.
	SectionName     string `json:"section_name,omitempty"`
	CategoryName    string `json:"category_name,omitempty"`
	SubcategoryName string `json:"subcategory_name,omitempty"`
}

// VisibleAt reports whether the post is readable by anonymous visitors
// at the given instant: published, or scheduled with a publish time that
// has already passed.
func (p *Post) VisibleAt(now time.Time) bool {
	switch p.Status {
	case PostStatusPublished:
		return true
	case PostStatusScheduled:
		return p.PublishedAt != nil && !p.PublishedAt.After(now)
	default:
		return false
	}
}

// HasDownload reports whether the post carries a downloadable file.
func (p *Post) HasDownload() bool {
	return p.Download != nil && *p.Download != ""
}
