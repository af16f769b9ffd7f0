// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Zona Vortex API.
// Handlers are grouped by concern (admin, public, auth, payments) and
// receive their dependencies through the handler struct.
package handlers

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zonavortex/internal/cache"
	"zonavortex/internal/markdown"
	"zonavortex/internal/middleware"
	"zonavortex/internal/models"
	"zonavortex/internal/permissions"
	"zonavortex/internal/slug"
	"zonavortex/internal/storage"
	"zonavortex/internal/store"
)

// maxUploadSize caps image and download uploads at 50 MiB.
const maxUploadSize = 50 << 20

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	userStore        *store.UserStore
	sectionStore     *store.SectionStore
	categoryStore    *store.CategoryStore
	subcategoryStore *store.SubcategoryStore
	postStore        *store.PostStore
	editStore        *store.PostEditStore
	commentStore     *store.CommentStore
	settingsStore    *store.SettingsStore
	storageClient    *storage.Client
	respCache        *cache.ResponseCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient may be nil if S3 is not configured.
func NewAdmin(userStore *store.UserStore, sectionStore *store.SectionStore, categoryStore *store.CategoryStore,
	subcategoryStore *store.SubcategoryStore, postStore *store.PostStore, editStore *store.PostEditStore,
	commentStore *store.CommentStore, settingsStore *store.SettingsStore,
	storageClient *storage.Client, respCache *cache.ResponseCache) *Admin {
	return &Admin{
		userStore:        userStore,
		sectionStore:     sectionStore,
		categoryStore:    categoryStore,
		subcategoryStore: subcategoryStore,
		postStore:        postStore,
		editStore:        editStore,
		commentStore:     commentStore,
		settingsStore:    settingsStore,
		storageClient:    storageClient,
		respCache:        respCache,
	}
}

// currentUser loads the full user record behind the session. Returns
// nil after writing the error response.
func (a *Admin) currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("session user lookup failed", "error", err)
		respondError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	return user
}

// invalidateListings drops every cached public response. Called after
// any write that can change a listing, the nav tree, or a detail page.
func (a *Admin) invalidateListings(r *http.Request) {
	if a.respCache != nil {
		a.respCache.InvalidateAll(r.Context())
	}
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// Dashboard returns the admin dashboard counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	if a.currentUser(w, r) == nil {
		return
	}

	_, total, err := a.postStore.List(store.ListFilter{
		IncludeDrafts: true, IncludePending: true, IncludeScheduled: true,
		PageSize: 1,
	})
	if err != nil {
		slog.Error("dashboard post count failed", "error", err)
	}

	pendingEdits, _ := a.editStore.ListPending()
	pendingComments, _ := a.commentStore.ListPending()
	users, _ := a.userStore.List()

	respondJSON(w, http.StatusOK, map[string]int{
		"posts":            total,
		"pending_edits":    len(pendingEdits),
		"pending_comments": len(pendingComments),
		"users":            len(users),
	})
}

// --- Taxonomy management ---

// sectionRequest carries section create/update fields.
type sectionRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PluralLabel string `json:"plural_label"`
	SortOrder   int    `json:"sort_order"`
	IsMain      bool   `json:"is_main"`
	Icon        string `json:"icon"`
}

// SectionsList returns all sections with their post counts.
func (a *Admin) SectionsList(w http.ResponseWriter, r *http.Request) {
	sections, err := a.sectionStore.List()
	if err != nil {
		slog.Error("list sections failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load sections")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// SectionCreate creates a section. The slug derives from the name when
// not supplied; unknown icons fall back to the default.
func (a *Admin) SectionCreate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req sectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTaxonomyName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	sec := &models.Section{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slugOrGenerate(req.Slug, req.Name),
		Description: req.Description,
		PluralLabel: req.PluralLabel,
		SortOrder:   req.SortOrder,
		IsMain:      req.IsMain,
		Icon:        models.ResolveIcon(req.Icon),
	}
	created, err := a.sectionStore.Create(sec)
	if err != nil {
		slog.Error("create section failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create section")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, created)
}

// SectionUpdate updates an existing section.
func (a *Admin) SectionUpdate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sec, err := a.sectionStore.FindByID(id)
	if err != nil {
		slog.Error("find section failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load section")
		return
	}
	if sec == nil {
		respondError(w, http.StatusNotFound, "section not found")
		return
	}

	var req sectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTaxonomyName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	sec.Name = strings.TrimSpace(req.Name)
	sec.Slug = slugOrGenerate(req.Slug, req.Name)
	sec.Description = req.Description
	sec.PluralLabel = req.PluralLabel
	sec.SortOrder = req.SortOrder
	sec.IsMain = req.IsMain
	sec.Icon = models.ResolveIcon(req.Icon)

	if err := a.sectionStore.Update(sec); err != nil {
		slog.Error("update section failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update section")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, sec)
}

// SectionDelete removes a section. Its categories, subcategories, and
// posts cascade in the database.
func (a *Admin) SectionDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.sectionStore.Delete(id); err != nil {
		slog.Error("delete section failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete section")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// categoryRequest carries category create/update fields.
type categoryRequest struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SectionID uuid.UUID `json:"section_id"`
	Gradient  string    `json:"gradient"`
}

// CategoryCreate creates a category inside a section.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTaxonomyName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	section, err := a.sectionStore.FindByID(req.SectionID)
	if err != nil {
		slog.Error("find section failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load section")
		return
	}
	if section == nil {
		respondError(w, http.StatusBadRequest, "section does not exist")
		return
	}

	created, err := a.categoryStore.Create(&models.Category{
		Name:      strings.TrimSpace(req.Name),
		Slug:      slugOrGenerate(req.Slug, req.Name),
		SectionID: req.SectionID,
		Gradient:  req.Gradient,
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, created)
}

// CategoryUpdate updates a category. The parent section cannot change;
// posts referencing it would silently switch sections.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	cat, err := a.categoryStore.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load category")
		return
	}
	if cat == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTaxonomyName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	cat.Name = strings.TrimSpace(req.Name)
	cat.Slug = slugOrGenerate(req.Slug, req.Name)
	cat.Gradient = req.Gradient

	if err := a.categoryStore.Update(cat); err != nil {
		slog.Error("update category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, cat)
}

// CategoryDelete removes a category and cascades its subcategories.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.categoryStore.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// subcategoryRequest carries subcategory create/update fields.
type subcategoryRequest struct {
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uuid.UUID `json:"category_id"`
}

// SubcategoryCreate creates a subcategory inside a category.
func (a *Admin) SubcategoryCreate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req subcategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTaxonomyName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := a.categoryStore.FindByID(req.CategoryID)
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load category")
		return
	}
	if category == nil {
		respondError(w, http.StatusBadRequest, "category does not exist")
		return
	}

	created, err := a.subcategoryStore.Create(&models.Subcategory{
		Name:       strings.TrimSpace(req.Name),
		Slug:       slugOrGenerate(req.Slug, req.Name),
		CategoryID: req.CategoryID,
	})
	if err != nil {
		slog.Error("create subcategory failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create subcategory")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, created)
}

// SubcategoryDelete removes a subcategory. Posts referencing it keep
// their category and lose only the subcategory link.
func (a *Admin) SubcategoryDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageTaxonomy) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.subcategoryStore.Delete(id); err != nil {
		slog.Error("delete subcategory failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete subcategory")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Posts ---

// postRequest carries post create/update fields. ContentMarkdown is
// rendered to HTML on save; Content stores the result.
type postRequest struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	ContentMarkdown string     `json:"content_markdown"`
	Status          string     `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	SectionID       uuid.UUID  `json:"section_id"`
	CategoryID      uuid.UUID  `json:"category_id"`
	SubcategoryID   *uuid.UUID `json:"subcategory_id,omitempty"`
	MainImageURL    *string    `json:"main_image_url,omitempty"`
	IsFeatured      bool       `json:"is_featured"`
	Download        *string    `json:"download,omitempty"`
	PriceCents      *int       `json:"price_cents,omitempty"`
	IsPremium       bool       `json:"is_premium"`
	Keywords        []string   `json:"keywords"`
}

// PostsList returns posts across all statuses for the admin table.
// ?status= filters to one status; authors see only their own posts.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}

	filter := store.ListFilter{
		IncludeDrafts: true, IncludePending: true, IncludeScheduled: true,
		PageSize: 100,
	}
	if !permissions.Allowed(user.Role, permissions.ActionEditAnyPost) {
		filter.AuthorID = &user.ID
	}

	posts, total, err := a.postStore.List(filter)
	if err != nil {
		slog.Error("admin list posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts, "total": total})
}

// PostGet returns one post regardless of status.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	post, err := a.postStore.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// applyPostRequest validates the request and fills a post. The returned
// message is empty on success.
func (a *Admin) applyPostRequest(user *models.User, post *models.Post, req *postRequest) (string, int) {
	if msg := validatePost(req.Title, req.Slug, req.ContentMarkdown); msg != "" {
		return msg, http.StatusBadRequest
	}
	excerpt := ""
	if req.Excerpt != nil {
		excerpt = *req.Excerpt
	}
	if msg := validatePostMetadata(excerpt, req.Keywords); msg != "" {
		return msg, http.StatusBadRequest
	}

	status := models.PostStatus(req.Status)
	switch status {
	case models.PostStatusDraft, models.PostStatusPendingApproval:
	case models.PostStatusPublished, models.PostStatusScheduled:
		if !permissions.Allowed(user.Role, permissions.ActionPublishPost) {
			return "publishing requires admin rights", http.StatusForbidden
		}
		if status == models.PostStatusScheduled && req.PublishedAt == nil {
			return "scheduled posts need a publish time", http.StatusBadRequest
		}
	default:
		return "unknown status", http.StatusBadRequest
	}

	category, err := a.categoryStore.FindByID(req.CategoryID)
	if err != nil || category == nil {
		return "category does not exist", http.StatusBadRequest
	}
	if category.SectionID != req.SectionID {
		return "category belongs to a different section", http.StatusBadRequest
	}
	if req.SubcategoryID != nil {
		sub, err := a.subcategoryStore.FindByID(*req.SubcategoryID)
		if err != nil || sub == nil {
			return "subcategory does not exist", http.StatusBadRequest
		}
		if sub.CategoryID != req.CategoryID {
			return "subcategory belongs to a different category", http.StatusBadRequest
		}
	}

	html, err := markdown.ToHTML(req.ContentMarkdown)
	if err != nil {
		slog.Error("markdown render failed", "error", err)
		return "failed to render content", http.StatusInternalServerError
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Slug = slugOrGenerate(req.Slug, req.Title)
	post.Excerpt = req.Excerpt
	post.Content = html
	post.Status = status
	post.PublishedAt = req.PublishedAt
	post.SectionID = req.SectionID
	post.CategoryID = req.CategoryID
	post.SubcategoryID = req.SubcategoryID
	post.MainImageURL = req.MainImageURL
	post.IsFeatured = req.IsFeatured
	post.Download = req.Download
	post.PriceCents = req.PriceCents
	post.IsPremium = req.IsPremium
	post.Keywords = req.Keywords
	return "", 0
}

// PostCreate creates a post authored by the current user.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionCreatePost) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post := &models.Post{AuthorID: user.ID}
	if msg, code := a.applyPostRequest(user, post, &req); msg != "" {
		respondError(w, code, msg)
		return
	}

	created, err := a.postStore.Create(post)
	if err != nil {
		slog.Error("create post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusCreated, created)
}

// PostUpdate updates a post the user may modify directly. Editors who
// cannot touch the post are pointed at the edit-proposal queue.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	post, err := a.postStore.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}
	if !permissions.CanModifyPost(user, post) {
		respondError(w, http.StatusForbidden, "propose an edit instead")
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, code := a.applyPostRequest(user, post, &req); msg != "" {
		respondError(w, code, msg)
		return
	}

	if err := a.postStore.Update(post); err != nil {
		slog.Error("update post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, post)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionDeletePost) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.postStore.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	a.invalidateListings(r)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Uploads ---

// UploadImage stores a post image in the public bucket and returns its
// URL.
func (a *Admin) UploadImage(w http.ResponseWriter, r *http.Request) {
	a.upload(w, r, true)
}

// UploadDownload stores a gated download file in the private bucket and
// returns its object key, to be set as the post's download.
func (a *Admin) UploadDownload(w http.ResponseWriter, r *http.Request) {
	a.upload(w, r, false)
}

func (a *Admin) upload(w http.ResponseWriter, r *http.Request, public bool) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionCreatePost) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	if a.storageClient == nil {
		respondError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	bucket := a.storageClient.PrivateBucket()
	prefix := "downloads"
	if public {
		bucket = a.storageClient.PublicBucket()
		prefix = "posts"
	}
	key := prefix + "/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := a.storageClient.Upload(r.Context(), bucket, key, contentType, file, header.Size); err != nil {
		slog.Error("upload failed", "error", err, "key", key)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	resp := map[string]string{"key": key}
	if public {
		resp["url"] = a.storageClient.FileURL(key)
	}
	respondJSON(w, http.StatusCreated, resp)
}

// --- Edit proposals ---

// editRequest carries a proposed edit. Nil fields stay unchanged.
type editRequest struct {
	Title    *string  `json:"title,omitempty"`
	Excerpt  *string  `json:"excerpt,omitempty"`
	Content  *string  `json:"content,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// EditSubmit files an edit proposal against a post. Any content role
// can propose; the change applies only after admin approval.
func (a *Admin) EditSubmit(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionProposeEdit) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	post, err := a.postStore.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == nil && req.Excerpt == nil && req.Content == nil && req.Keywords == nil {
		respondError(w, http.StatusBadRequest, "empty proposal")
		return
	}

	proposed := models.ProposedFields{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Keywords: req.Keywords,
	}
	if req.Content != nil {
		html, err := markdown.ToHTML(*req.Content)
		if err != nil {
			slog.Error("markdown render failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to render content")
			return
		}
		proposed.Content = &html
	}

	edit, err := a.editStore.Submit(post.ID, user.ID, proposed)
	if err != nil {
		slog.Error("submit edit failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to submit edit")
		return
	}
	respondJSON(w, http.StatusCreated, edit)
}

// EditsPending returns the review queue, oldest first.
func (a *Admin) EditsPending(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionReviewEdits) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	edits, err := a.editStore.ListPending()
	if err != nil {
		slog.Error("list pending edits failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load edits")
		return
	}
	if edits == nil {
		edits = []models.PostEdit{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"edits": edits})
}

// EditApprove applies a pending edit to its post.
func (a *Admin) EditApprove(w http.ResponseWriter, r *http.Request) {
	a.reviewEdit(w, r, true)
}

// EditReject discards a pending edit without touching the post.
func (a *Admin) EditReject(w http.ResponseWriter, r *http.Request) {
	a.reviewEdit(w, r, false)
}

func (a *Admin) reviewEdit(w http.ResponseWriter, r *http.Request, approve bool) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionReviewEdits) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var err error
	if approve {
		err = a.editStore.Approve(id, user.ID)
	} else {
		err = a.editStore.Reject(id, user.ID)
	}
	if err != nil {
		slog.Warn("edit review failed", "error", err, "edit", id, "approve", approve)
		respondError(w, http.StatusConflict, "edit is not pending")
		return
	}

	if approve {
		a.invalidateListings(r)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reviewed"})
}

// --- Comment moderation ---

// CommentsPending returns comments waiting for moderation.
func (a *Admin) CommentsPending(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionModerateComments) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	comments, err := a.commentStore.ListPending()
	if err != nil {
		slog.Error("list pending comments failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// CommentApprove publishes a pending comment.
func (a *Admin) CommentApprove(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionModerateComments) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.commentStore.Approve(id); err != nil {
		slog.Error("approve comment failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to approve comment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// CommentDelete removes a comment.
func (a *Admin) CommentDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionModerateComments) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.commentStore.Delete(id); err != nil {
		slog.Error("delete comment failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- Ad configuration ---

// AdConfigGet returns the stored ad configuration for the settings
// screen, including disabled state.
func (a *Admin) AdConfigGet(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageAds) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	cfg, err := a.settingsStore.AdConfig()
	if err != nil {
		slog.Error("load ad config failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load ad config")
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// AdConfigUpdate stores the ad configuration and invalidates the cached
// public copy so the change is visible immediately.
func (a *Admin) AdConfigUpdate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageAds) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var cfg models.AdConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if cfg.CountdownSeconds < 1 || cfg.CountdownSeconds > 60 {
		respondError(w, http.StatusBadRequest, "countdown must be between 1 and 60 seconds")
		return
	}

	if err := a.settingsStore.SaveAdConfig(cfg); err != nil {
		slog.Error("save ad config failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save ad config")
		return
	}

	if a.respCache != nil {
		a.respCache.Invalidate(r.Context(), cache.AdConfigKey())
	}
	respondJSON(w, http.StatusOK, cfg)
}

// --- Users ---

// UsersList returns all user accounts.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageUsers) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	users, err := a.userStore.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// userRequest carries user creation fields.
type userRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// UserCreate creates a new account.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageUsers) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}
	if req.Email == "" || len(req.Password) < 12 {
		respondError(w, http.StatusBadRequest, "email and a password of at least 12 characters are required")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		respondError(w, http.StatusBadRequest, "display name is required")
		return
	}

	created, err := a.userStore.Create(req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		slog.Error("create user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UserDelete removes an account. Admins cannot delete themselves.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageUsers) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if id == user.ID {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := a.userStore.Delete(id); err != nil {
		slog.Error("delete user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UserResetTOTP clears a user's two-factor enrollment so they can set it
// up again on next login.
func (a *Admin) UserResetTOTP(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(w, r)
	if user == nil {
		return
	}
	if !permissions.Allowed(user.Role, permissions.ActionManageUsers) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := a.userStore.ResetTOTP(id); err != nil {
		slog.Error("reset totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to reset two-factor")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// slugOrGenerate returns the explicit slug, normalized, or one derived
// from the fallback text.
func slugOrGenerate(explicit, fallback string) string {
	if s := slug.Generate(explicit); s != "" {
		return s
	}
	return slug.Generate(fallback)
}
