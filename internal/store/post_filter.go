// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post_filter.go assembles the WHERE clause for post listings. The
// status-set construction and the scheduled-visibility gate live here so
// they can be tested without a database.
package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// DefaultPageSize is the number of posts per listing page when the
// caller does not specify one.
const DefaultPageSize = 9

// ListFilter describes a post listing request. Taxonomy filters match by
// name or slug through the joined taxonomy tables; absent filters mean
// "all". The only implicit defaults are Page=1 and PageSize=9 — there is
// no fallback section.
type ListFilter struct {
	SectionSlug     string
	CategoryName    string
	SubcategoryName string
	SearchQuery     string

	Page     int // 1-based
	PageSize int

	IncludeDrafts    bool
	IncludePending   bool
	IncludeScheduled bool

	AuthorID *uuid.UUID
}

// normalized returns a copy with pagination defaults applied.
func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// offset returns the row offset for the requested page.
func (f ListFilter) offset() int {
	return (f.Page - 1) * f.PageSize
}

// statuses builds the requested status set. Published is always a member;
// the flags opt additional statuses in.
func (f ListFilter) statuses() []models.PostStatus {
	set := []models.PostStatus{models.PostStatusPublished}
	if f.IncludeDrafts {
		set = append(set, models.PostStatusDraft)
	}
	if f.IncludePending {
		set = append(set, models.PostStatusPendingApproval)
	}
	if f.IncludeScheduled {
		set = append(set, models.PostStatusScheduled)
	}
	return set
}

// where builds the SQL predicate and argument list for the filter,
// numbering placeholders from $1. The clause references the aliases p
// (posts), s (sections), c (categories), and sc (subcategories).
func (f ListFilter) where() (string, []any) {
	var conds []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	// Status set membership.
	statuses := f.statuses()
	ph := make([]string, len(statuses))
	for i, st := range statuses {
		ph[i] = next(string(st))
	}
	conds = append(conds, "p.status IN ("+strings.Join(ph, ", ")+")")

	// Temporal gate for scheduled posts. This applies regardless of the
	// IncludeScheduled flag: a scheduled post with a future publish time
	// is invisible everywhere until the time passes. Checking only the
	// status set would leak unpublished scheduled content.
	conds = append(conds, "(p.status <> 'scheduled' OR p.published_at <= NOW())")

	if f.SectionSlug != "" {
		p := next(f.SectionSlug)
		conds = append(conds, "(s.slug = "+p+" OR s.name = "+p+")")
	}
	if f.CategoryName != "" {
		p := next(f.CategoryName)
		conds = append(conds, "(c.slug = "+p+" OR c.name = "+p+")")
	}
	if f.SubcategoryName != "" {
		p := next(f.SubcategoryName)
		conds = append(conds, "(sc.slug = "+p+" OR sc.name = "+p+")")
	}

	if f.SearchQuery != "" {
		p := next("%" + escapeLike(f.SearchQuery) + "%")
		conds = append(conds, "(p.title ILIKE "+p+" ESCAPE '\\' OR p.excerpt ILIKE "+p+" ESCAPE '\\')")
	}

	if f.AuthorID != nil {
		conds = append(conds, "p.author_id = "+next(*f.AuthorID))
	}

	return strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE/ILIKE metacharacters in user-supplied search
// text so they match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// joinKeywords serializes a keyword list into the comma-separated form
// stored in the posts table. Empty entries are dropped.
func joinKeywords(keywords []string) string {
	var clean []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			clean = append(clean, kw)
		}
	}
	return strings.Join(clean, ",")
}

// splitKeywords parses the stored comma-separated keyword column back
// into a list. Returns nil for an empty column.
func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
