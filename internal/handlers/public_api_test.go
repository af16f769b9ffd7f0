// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// webFixture is a section/category/author/post tree for handler tests.
// Deleting the section cascades everything except the user.
type webFixture struct {
	Section  *models.Section
	Category *models.Category
	Author   *models.User
	Post     *models.Post
}

func seedWebFixture(t *testing.T, env *testEnv) *webFixture {
	t.Helper()

	sfx := uuid.NewString()[:8]

	section, err := env.SectionStore.Create(&models.Section{
		Name: "Sec " + sfx, Slug: "sec-" + sfx,
		Description: "Aprende con nosotros", PluralLabel: "artículos",
	})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM sections WHERE id = $1", section.ID) })

	category, err := env.CategoryStore.Create(&models.Category{
		Name: "Cat " + sfx, Slug: "cat-" + sfx, SectionID: section.ID,
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	author := testUser(t, env, "author")

	excerpt := "Un resumen corto."
	post, err := env.PostStore.Create(&models.Post{
		Title: "Post " + sfx, Slug: "post-" + sfx,
		Excerpt: &excerpt, Content: "<p>Hola</p>",
		Status: models.PostStatusPublished, SectionID: section.ID,
		CategoryID: category.ID, AuthorID: author.ID,
		Keywords: []string{"inglés"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	return &webFixture{Section: section, Category: category, Author: author, Post: post}
}

// listingRequest builds a GET request with taxonomy route params.
func listingRequest(target string, segments ...string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	keys := []string{"section", "category", "subcategory"}
	for i, s := range segments {
		rctx.URLParams.Add(keys[i], s)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListingHandler(t *testing.T) {
	env := newTestEnv(t)
	fx := seedWebFixture(t, env)

	t.Run("section page", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.Public.Listing(w, listingRequest("/api/listing/"+fx.Section.Slug, fx.Section.Slug))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp listingResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Total != 1 || len(resp.Posts) != 1 {
			t.Errorf("total = %d, posts = %d, want 1 and 1", resp.Total, len(resp.Posts))
		}
		if resp.Posts[0].Slug != fx.Post.Slug {
			t.Errorf("post slug = %q, want %q", resp.Posts[0].Slug, fx.Post.Slug)
		}
		if resp.CurrentPage != 1 || resp.TotalPages != 1 {
			t.Errorf("current/total pages = %d/%d, want 1/1", resp.CurrentPage, resp.TotalPages)
		}
		// A single page renders no pagination strip.
		if len(resp.Pagination) != 0 {
			t.Errorf("pagination = %v, want empty", resp.Pagination)
		}
		if resp.Page.Title != fx.Section.Name {
			t.Errorf("page title = %q, want %q", resp.Page.Title, fx.Section.Name)
		}
	})

	t.Run("category page", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.Public.Listing(w, listingRequest("/x", fx.Section.Slug, fx.Category.Slug))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("unknown section is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.Public.Listing(w, listingRequest("/x", "no-such-section-"+uuid.NewString()[:8]))

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("category under wrong section is 404", func(t *testing.T) {
		other := seedWebFixture(t, env)

		w := httptest.NewRecorder()
		env.Public.Listing(w, listingRequest("/x", other.Section.Slug, fx.Category.Slug))

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("search misses return empty page not error", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.Public.Listing(w, listingRequest("/x?q=zzz-nada", fx.Section.Slug))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp listingResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Total != 0 {
			t.Errorf("total = %d, want 0", resp.Total)
		}
		if resp.Posts == nil {
			t.Error("posts should encode as [], not null")
		}
	})
}

func TestPostDetailHandler(t *testing.T) {
	env := newTestEnv(t)
	fx := seedWebFixture(t, env)

	t.Run("visible post", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withChiURLParam(httptest.NewRequest(http.MethodGet, "/x", nil), "slug", fx.Post.Slug)
		env.Public.PostDetail(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), fx.Post.Slug) {
			t.Error("response should include the post")
		}
	})

	t.Run("draft is hidden", func(t *testing.T) {
		draft, err := env.PostStore.Create(&models.Post{
			Title: "Draft", Slug: "draft-" + uuid.NewString()[:8],
			Status: models.PostStatusDraft, SectionID: fx.Section.ID,
			CategoryID: fx.Category.ID, AuthorID: fx.Author.ID,
		})
		if err != nil {
			t.Fatalf("create draft: %v", err)
		}

		w := httptest.NewRecorder()
		r := withChiURLParam(httptest.NewRequest(http.MethodGet, "/x", nil), "slug", draft.Slug)
		env.Public.PostDetail(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestDownloadLinkHandler(t *testing.T) {
	env := newTestEnv(t)
	fx := seedWebFixture(t, env)

	t.Run("post without download is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withChiURLParam(httptest.NewRequest(http.MethodPost, "/x", nil), "slug", fx.Post.Slug)
		env.Public.DownloadLink(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("unconfigured storage is 503", func(t *testing.T) {
		key := "downloads/guide.pdf"
		fx.Post.Download = &key
		if err := env.PostStore.Update(fx.Post); err != nil {
			t.Fatalf("update post: %v", err)
		}

		w := httptest.NewRecorder()
		r := withChiURLParam(httptest.NewRequest(http.MethodPost, "/x", nil), "slug", fx.Post.Slug)
		env.Public.DownloadLink(w, r)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
	})
}

func TestAdConfigHandlerFailsOpen(t *testing.T) {
	env := newTestEnv(t)

	// With no row stored the endpoint still answers 200 with defaults.
	w := httptest.NewRecorder()
	env.Public.AdConfig(w, httptest.NewRequest(http.MethodGet, "/api/ads", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var cfg models.AdConfig
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.CountdownSeconds < 1 {
		t.Errorf("countdown = %d, want a positive default", cfg.CountdownSeconds)
	}
}

func TestCommentHandlers(t *testing.T) {
	env := newTestEnv(t)
	fx := seedWebFixture(t, env)

	t.Run("create is held for moderation", func(t *testing.T) {
		body := strings.NewReader(`{"author_name":"Ana","body":"¡Gracias por el artículo!"}`)
		r := withChiURLParam(httptest.NewRequest(http.MethodPost, "/x", body), "slug", fx.Post.Slug)
		w := httptest.NewRecorder()
		env.Public.CreateComment(w, r)

		if w.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "pending_moderation") {
			t.Error("response should flag the comment as pending")
		}

		// Pending comments are invisible on the public list.
		w = httptest.NewRecorder()
		r = withChiURLParam(httptest.NewRequest(http.MethodGet, "/x", nil), "slug", fx.Post.Slug)
		env.Public.ListComments(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("list status = %d, want 200", w.Code)
		}
		var resp struct {
			Comments []models.Comment `json:"comments"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(resp.Comments) != 0 {
			t.Errorf("approved comments = %d, want 0", len(resp.Comments))
		}
	})

	t.Run("missing body is rejected", func(t *testing.T) {
		body := strings.NewReader(`{"author_name":"Ana","body":"  "}`)
		r := withChiURLParam(httptest.NewRequest(http.MethodPost, "/x", body), "slug", fx.Post.Slug)
		w := httptest.NewRecorder()
		env.Public.CreateComment(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
