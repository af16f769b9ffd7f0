package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for post, taxonomy, and comment fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxContentLen  = 100_000
	maxExcerptLen  = 1_000
	maxKeywordsLen = 500
	maxNameLen     = 120
	maxCommentLen  = 5_000
)

// validatePost checks post inputs and returns the first error found.
func validatePost(title, slug, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validatePostMetadata checks the optional post fields.
func validatePostMetadata(excerpt string, keywords []string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(strings.Join(keywords, ",")) > maxKeywordsLen {
		return "Keywords are too long (max 500 characters)."
	}
	return ""
}

// validateTaxonomyName checks a section, category, or subcategory name.
func validateTaxonomyName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 120 characters)."
	}
	return ""
}

// validateComment checks a public comment submission.
func validateComment(authorName, body string) string {
	if strings.TrimSpace(authorName) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(authorName) > maxNameLen {
		return "Name is too long (max 120 characters)."
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "Comment is required."
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return "Comment is too long (max 5,000 characters)."
	}
	return ""
}
