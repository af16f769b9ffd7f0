// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"zonavortex/internal/models"
)

// TestCategoryScopedLookup verifies that category slugs resolve only
// inside their own section. The same slug may exist in two sections and
// must never leak across.
func TestCategoryScopedLookup(t *testing.T) {
	db := testDB(t)
	t.Cleanup(func() { cleanSections(t, db, "taxtest-a", "taxtest-b") }) // cascades

	sections := NewSectionStore(db)
	categories := NewCategoryStore(db)

	secA, err := sections.Create(&models.Section{Slug: "taxtest-a", Name: "Sección A", PluralLabel: "artículos"})
	if err != nil {
		t.Fatalf("failed to create section A: %v", err)
	}
	secB, err := sections.Create(&models.Section{Slug: "taxtest-b", Name: "Sección B", PluralLabel: "recursos"})
	if err != nil {
		t.Fatalf("failed to create section B: %v", err)
	}

	// The same category slug in both sections.
	catA, err := categories.Create(&models.Category{Slug: "idiomas", Name: "Idiomas A", SectionID: secA.ID})
	if err != nil {
		t.Fatalf("failed to create category in A: %v", err)
	}
	catB, err := categories.Create(&models.Category{Slug: "idiomas", Name: "Idiomas B", SectionID: secB.ID})
	if err != nil {
		t.Fatalf("failed to create category in B: %v", err)
	}

	got, err := categories.FindBySlugInSection(secA.ID, "idiomas")
	if err != nil {
		t.Fatalf("FindBySlugInSection failed: %v", err)
	}
	if got == nil || got.ID != catA.ID {
		t.Errorf("lookup in section A returned %v, want category %s", got, catA.ID)
	}

	got, err = categories.FindBySlugInSection(secB.ID, "idiomas")
	if err != nil {
		t.Fatalf("FindBySlugInSection failed: %v", err)
	}
	if got == nil || got.ID != catB.ID {
		t.Errorf("lookup in section B returned %v, want category %s", got, catB.ID)
	}

	// A slug that only exists in the other section resolves to nothing.
	missing, err := categories.FindBySlugInSection(secA.ID, "no-such")
	if err != nil {
		t.Fatalf("FindBySlugInSection failed: %v", err)
	}
	if missing != nil {
		t.Errorf("unknown slug resolved to %v, want nil", missing)
	}
}

// TestSubcategoryScopedLookup verifies the same scoping one level down:
// subcategory slugs resolve only inside their parent category.
func TestSubcategoryScopedLookup(t *testing.T) {
	db := testDB(t)
	t.Cleanup(func() { cleanSections(t, db, "taxtest-sub") })

	sec, err := NewSectionStore(db).Create(&models.Section{Slug: "taxtest-sub", Name: "Sección", PluralLabel: "artículos"})
	if err != nil {
		t.Fatalf("failed to create section: %v", err)
	}

	categories := NewCategoryStore(db)
	cat1, err := categories.Create(&models.Category{Slug: "cat-uno", Name: "Uno", SectionID: sec.ID})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	cat2, err := categories.Create(&models.Category{Slug: "cat-dos", Name: "Dos", SectionID: sec.ID})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	subs := NewSubcategoryStore(db)
	sub, err := subs.Create(&models.Subcategory{Slug: "ingles", Name: "Inglés", CategoryID: cat1.ID})
	if err != nil {
		t.Fatalf("failed to create subcategory: %v", err)
	}

	got, err := subs.FindBySlugInCategory(cat1.ID, "ingles")
	if err != nil {
		t.Fatalf("FindBySlugInCategory failed: %v", err)
	}
	if got == nil || got.ID != sub.ID {
		t.Errorf("lookup in parent category returned %v, want %s", got, sub.ID)
	}

	// Same slug under a sibling category does not resolve.
	got, err = subs.FindBySlugInCategory(cat2.ID, "ingles")
	if err != nil {
		t.Fatalf("FindBySlugInCategory failed: %v", err)
	}
	if got != nil {
		t.Errorf("lookup under wrong parent returned %v, want nil", got)
	}
}

// TestSectionNav verifies the nested navigation tree: sections ordered
// by sort_order with their categories and subcategories attached.
func TestSectionNav(t *testing.T) {
	db := testDB(t)
	t.Cleanup(func() { cleanSections(t, db, "taxtest-nav") })

	sec, err := NewSectionStore(db).Create(&models.Section{
		Slug: "taxtest-nav", Name: "Navegación", PluralLabel: "artículos", SortOrder: 99,
	})
	if err != nil {
		t.Fatalf("failed to create section: %v", err)
	}
	cat, err := NewCategoryStore(db).Create(&models.Category{Slug: "nav-cat", Name: "Cat", SectionID: sec.ID})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	if _, err := NewSubcategoryStore(db).Create(&models.Subcategory{
		Slug: "nav-sub", Name: "Sub", CategoryID: cat.ID,
	}); err != nil {
		t.Fatalf("failed to create subcategory: %v", err)
	}

	nav, err := NewSectionStore(db).Nav()
	if err != nil {
		t.Fatalf("Nav failed: %v", err)
	}

	var found *models.Section
	for i := range nav {
		if nav[i].Slug == "taxtest-nav" {
			found = &nav[i]
			break
		}
	}
	if found == nil {
		t.Fatal("created section missing from nav")
	}
	if len(found.Categories) != 1 || found.Categories[0].Slug != "nav-cat" {
		t.Fatalf("nav categories = %v, want [nav-cat]", found.Categories)
	}
	subs := found.Categories[0].Subcategories
	if len(subs) != 1 || subs[0].Slug != "nav-sub" {
		t.Errorf("nav subcategories = %v, want [nav-sub]", subs)
	}
}
