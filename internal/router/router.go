// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Zona Vortex API. Routes are organized into public and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"zonavortex/internal/handlers"
	"zonavortex/internal/middleware"
	"zonavortex/internal/session"
)

// commentRateLimit throttles anonymous comment submissions per IP.
const (
	commentRateLimit  = 5
	commentRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned rate limiter must be stopped
// on shutdown.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth,
	public *handlers.Public, payments *handlers.Payments) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	commentLimiter := middleware.NewRateLimiter(commentRateLimit, commentRateWindow)

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Root-level listing aliases so taxonomy paths work without the /api
	// prefix. Static routes above always win over the wildcards.
	r.Get("/{section}", public.Listing)
	r.Get("/{section}/{category}", public.Listing)
	r.Get("/{section}/{category}/{subcategory}", public.Listing)

	r.Route("/api", func(r chi.Router) {
		// Public content API.
		r.Get("/nav", public.Nav)
		r.Get("/ads", public.AdConfig)

		r.Route("/listing", func(r chi.Router) {
			r.Get("/{section}", public.Listing)
			r.Get("/{section}/{category}", public.Listing)
			r.Get("/{section}/{category}/{subcategory}", public.Listing)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/featured", public.Featured)
			r.Get("/downloads", public.Downloads)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", public.PostDetail)
				r.Get("/download", public.DownloadLink)
				r.Post("/download", public.DownloadLink)
				r.Get("/comments", public.ListComments)
				r.With(commentLimiter.Middleware).Post("/comments", public.CreateComment)
			})
		})

		// Payment provider callback — authenticated by HMAC signature.
		r.Post("/payments/callback", payments.Callback)

		// Auth flow.
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.CSRF)
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			// 2FA — requires auth but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", auth.TwoFASetup)
				r.Post("/2fa/verify", auth.TwoFAVerify)
				r.Get("/me", auth.Me)
			})
		})

		// Authenticated + 2FA-verified admin area.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.CSRF)
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/dashboard", admin.Dashboard)

			r.Route("/sections", func(r chi.Router) {
				r.Get("/", admin.SectionsList)
				r.Post("/", admin.SectionCreate)
				r.Put("/{id}", admin.SectionUpdate)
				r.Delete("/{id}", admin.SectionDelete)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CategoryCreate)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})
			r.Route("/subcategories", func(r chi.Router) {
				r.Post("/", admin.SubcategoryCreate)
				r.Delete("/{id}", admin.SubcategoryDelete)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}", admin.PostGet)
				r.Put("/{id}", admin.PostUpdate)
				r.Delete("/{id}", admin.PostDelete)
				r.Post("/{id}/edits", admin.EditSubmit)
			})

			r.Route("/edits", func(r chi.Router) {
				r.Get("/", admin.EditsPending)
				r.Post("/{id}/approve", admin.EditApprove)
				r.Post("/{id}/reject", admin.EditReject)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", admin.CommentsPending)
				r.Post("/{id}/approve", admin.CommentApprove)
				r.Delete("/{id}", admin.CommentDelete)
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/images", admin.UploadImage)
				r.Post("/downloads", admin.UploadDownload)
			})

			r.Route("/ads", func(r chi.Router) {
				r.Get("/", admin.AdConfigGet)
				r.Put("/", admin.AdConfigUpdate)
			})

			// User management — admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Post("/", admin.UserCreate)
				r.Delete("/{id}", admin.UserDelete)
				r.Post("/{id}/reset-2fa", admin.UserResetTOTP)
			})
		})
	})

	return r, commentLimiter
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
