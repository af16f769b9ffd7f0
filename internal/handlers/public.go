// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"zonavortex/internal/cache"
	"zonavortex/internal/models"
	"zonavortex/internal/pagination"
	"zonavortex/internal/storage"
	"zonavortex/internal/store"
	"zonavortex/internal/taxonomy"
)

// relatedLimit is how many related posts a detail response carries.
const relatedLimit = 3

// downloadURLTTL is how long a presigned download link stays valid.
const downloadURLTTL = 15 * time.Minute

// Public groups the handlers behind the reader-facing API. Listing and
// navigation responses are cached in Valkey; search results and post
// detail pages are always served fresh.
type Public struct {
	resolver      *taxonomy.Resolver
	sectionStore  *store.SectionStore
	postStore     *store.PostStore
	commentStore  *store.CommentStore
	paymentStore  *store.PaymentStore
	settingsStore *store.SettingsStore
	storageClient *storage.Client
	respCache     *cache.ResponseCache
}

// NewPublic creates a new Public handler group. storageClient may be nil
// if S3 is not configured; download endpoints then return 503.
func NewPublic(resolver *taxonomy.Resolver, sectionStore *store.SectionStore, postStore *store.PostStore,
	commentStore *store.CommentStore, paymentStore *store.PaymentStore, settingsStore *store.SettingsStore,
	storageClient *storage.Client, respCache *cache.ResponseCache) *Public {
	return &Public{
		resolver:      resolver,
		sectionStore:  sectionStore,
		postStore:     postStore,
		commentStore:  commentStore,
		paymentStore:  paymentStore,
		settingsStore: settingsStore,
		storageClient: storageClient,
		respCache:     respCache,
	}
}

// serveCached writes a cached body if present. Returns true on a hit.
func (p *Public) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	if p.respCache == nil {
		return false
	}
	body, ok := p.respCache.Get(ctx, key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
	return true
}

// cacheAndRespond stores the encoded body under key and writes it.
func (p *Public) cacheAndRespond(ctx context.Context, w http.ResponseWriter, key string, v any) {
	body, err := encodeBody(v)
	if err != nil {
		slog.Error("encode cached response failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p.respCache != nil {
		p.respCache.Set(ctx, key, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Nav returns the full navigation tree: sections with nested categories
// and subcategories.
func (p *Public) Nav(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if p.serveCached(ctx, w, cache.NavKey()) {
		return
	}

	sections, err := p.sectionStore.Nav()
	if err != nil {
		slog.Error("nav query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load navigation")
		return
	}
	p.cacheAndRespond(ctx, w, cache.NavKey(), map[string]any{"sections": sections})
}

// listingResponse is the JSON shape of a listing page.
type listingResponse struct {
	Page        taxonomy.Page     `json:"page"`
	Posts       []models.Post     `json:"posts"`
	Total       int               `json:"total"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	Pagination  []pagination.Item `json:"pagination"`
}

// Listing serves a section, category, or subcategory page. The URL path
// carries one to three slug segments; ?page= selects the page and ?q=
// filters by title or excerpt. A failed query is a 500, never an empty
// page, so the client can tell "nothing here" from "something broke".
func (p *Public) Listing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	segments := listingSegments(r)
	res, err := p.resolver.Resolve(segments)
	if err == taxonomy.ErrNotFound {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		slog.Error("taxonomy resolve failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "failed to resolve page")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	search := strings.TrimSpace(r.URL.Query().Get("q"))

	filter := store.ListFilter{
		SectionSlug: res.Section.Slug,
		SearchQuery: search,
		Page:        page,
	}
	if res.Category != nil {
		filter.CategoryName = res.Category.Slug
	}
	if res.Subcategory != nil {
		filter.SubcategoryName = res.Subcategory.Slug
	}

	// Search results are personal to the query and skip the cache.
	cacheKey := ""
	if search == "" {
		cacheKey = cache.ListingKey(res.Page.BasePath, maxInt(page, 1))
		if p.serveCached(ctx, w, cacheKey) {
			return
		}
	}

	posts, total, err := p.postStore.List(filter)
	if err != nil {
		slog.Error("listing query failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	current := maxInt(page, 1)
	totalPages := (total + store.DefaultPageSize - 1) / store.DefaultPageSize
	resp := listingResponse{
		Page:        res.Page,
		Posts:       posts,
		Total:       total,
		CurrentPage: current,
		TotalPages:  totalPages,
		Pagination:  pagination.PageNumbers(current, totalPages),
	}
	if resp.Posts == nil {
		resp.Posts = []models.Post{}
	}

	if cacheKey != "" {
		p.cacheAndRespond(ctx, w, cacheKey, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// listingSegments extracts the non-empty slug segments from the route.
func listingSegments(r *http.Request) []string {
	var segments []string
	for _, key := range []string{"section", "category", "subcategory"} {
		if v := chi.URLParam(r, key); v != "" {
			segments = append(segments, v)
		}
	}
	return segments
}

// PostDetail serves a single visible post with its related posts. Drafts
// and future-scheduled posts 404 here; admins preview through the admin
// API instead.
func (p *Public) PostDetail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	post, err := p.postStore.FindVisibleBySlug(slugParam)
	if err != nil {
		slog.Error("post lookup failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	related, err := p.postStore.Related(post, relatedLimit)
	if err != nil {
		// The post itself is fine; degrade to an empty related list.
		slog.Warn("related posts failed", "error", err, "slug", slugParam)
		related = nil
	}
	if related == nil {
		related = []models.Post{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"post":    post,
		"related": related,
	})
}

// Featured serves the featured-post strip for the homepage. Only posts
// with a main image qualify.
func (p *Public) Featured(w http.ResponseWriter, r *http.Request) {
	posts, err := p.postStore.Featured(6, true)
	if err != nil {
		slog.Error("featured query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load featured posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Downloads serves the latest downloadable posts.
func (p *Public) Downloads(w http.ResponseWriter, r *http.Request) {
	posts, err := p.postStore.Downloadable(12)
	if err != nil {
		slog.Error("downloads query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load downloads")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// AdConfig serves the public ad configuration the frontend needs to run
// banners and the download interstitial. Any load failure degrades to
// the disabled default with a 200 — a broken ad config must never break
// the site.
func (p *Public) AdConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if p.serveCached(ctx, w, cache.AdConfigKey()) {
		return
	}

	cfg, err := p.settingsStore.AdConfig()
	if err != nil {
		slog.Warn("ad config load failed, serving defaults", "error", err)
		respondJSON(w, http.StatusOK, models.DefaultAdConfig())
		return
	}
	p.cacheAndRespond(ctx, w, cache.AdConfigKey(), cfg)
}

// downloadRequest is the body of a download-link request. Reference is
// the payment reference, required only for premium posts.
type downloadRequest struct {
	Reference string `json:"reference,omitempty"`
}

// DownloadLink issues a time-limited presigned URL for a post's file.
// Free downloads get a link straight away; premium posts require a paid
// payment reference for this post.
func (p *Public) DownloadLink(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	post, err := p.postStore.FindVisibleBySlug(slugParam)
	if err != nil {
		slog.Error("post lookup failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil || !post.HasDownload() {
		respondError(w, http.StatusNotFound, "no download for this post")
		return
	}

	if p.storageClient == nil {
		respondError(w, http.StatusServiceUnavailable, "downloads are not configured")
		return
	}

	if post.IsPremium {
		reference := strings.TrimSpace(r.URL.Query().Get("reference"))
		if reference == "" {
			var req downloadRequest
			if err := decodeJSON(r, &req); err == nil {
				reference = req.Reference
			}
		}
		if reference == "" {
			respondError(w, http.StatusPaymentRequired, "payment reference required")
			return
		}
		paid, err := p.paymentStore.HasPaidFor(post.ID, reference)
		if err != nil {
			slog.Error("payment check failed", "error", err, "slug", slugParam)
			respondError(w, http.StatusInternalServerError, "failed to verify payment")
			return
		}
		if !paid {
			respondError(w, http.StatusPaymentRequired, "payment not completed")
			return
		}
	}

	url, err := p.storageClient.PresignedURL(r.Context(), p.storageClient.PrivateBucket(), *post.Download, downloadURLTTL)
	if err != nil {
		slog.Error("presign failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to create download link")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_in": int(downloadURLTTL.Seconds()),
	})
}

// ListComments serves the approved comments of a post, oldest first.
func (p *Public) ListComments(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	post, err := p.postStore.FindVisibleBySlug(slugParam)
	if err != nil {
		slog.Error("post lookup failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	comments, err := p.commentStore.ListApproved(post.ID)
	if err != nil {
		slog.Error("comments query failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// commentRequest is the body of a new comment submission.
type commentRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Body        string `json:"body"`
}

// CreateComment accepts a new comment and holds it for moderation. The
// route is rate limited at the router.
func (p *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	post, err := p.postStore.FindVisibleBySlug(slugParam)
	if err != nil {
		slog.Error("post lookup failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateComment(req.AuthorName, req.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	comment := &models.Comment{
		PostID:     post.ID,
		AuthorName: strings.TrimSpace(req.AuthorName),
		Body:       strings.TrimSpace(req.Body),
	}
	if email := strings.TrimSpace(req.AuthorEmail); email != "" {
		comment.AuthorEmail = &email
	}

	created, err := p.commentStore.Create(comment)
	if err != nil {
		slog.Error("comment create failed", "error", err, "slug", slugParam)
		respondError(w, http.StatusInternalServerError, "failed to save comment")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"comment": created,
		"status":  "pending_moderation",
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
