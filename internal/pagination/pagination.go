// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination computes the compressed page-number strip shown
// under post listings: first and last page always visible, a window
// around the current page, and ellipsis markers for the gaps.
package pagination

// Item is one element of the page strip: either a page number or an
// ellipsis gap.
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// windowSize is how many consecutive pages surround the current one,
// current included.
const windowSize = 5

// PageNumbers builds the page strip for the given current page out of
// total pages. With a single page (or none) there is nothing to
// paginate and the strip is empty. Small sets are shown in full;
// larger ones compress to first page, a five-page window around the
// current page, and the last page, with ellipses covering the gaps.
func PageNumbers(current, total int) []Item {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	// With up to windowSize+2 pages the compressed form would save
	// nothing, so show every page.
	if total <= windowSize+2 {
		items := make([]Item, 0, total)
		for p := 1; p <= total; p++ {
			items = append(items, Item{Page: p})
		}
		return items
	}

	// Center the window on the current page, clamped so it stays
	// strictly between the first and last page.
	start := current - windowSize/2
	end := current + windowSize/2
	if start < 2 {
		end += 2 - start
		start = 2
	}
	if end > total-1 {
		start -= end - (total - 1)
		end = total - 1
	}
	if start < 2 {
		start = 2
	}

	items := []Item{{Page: 1}}
	if start > 2 {
		items = append(items, Item{Ellipsis: true})
	}
	for p := start; p <= end; p++ {
		items = append(items, Item{Page: p})
	}
	if end < total-1 {
		items = append(items, Item{Ellipsis: true})
	}
	return append(items, Item{Page: total})
}
