// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"zonavortex/internal/cache"
	"zonavortex/internal/database"
	"zonavortex/internal/middleware"
	"zonavortex/internal/models"
	"zonavortex/internal/session"
	"zonavortex/internal/store"
	"zonavortex/internal/taxonomy"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "zonavortex")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "zonavortex")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "resp:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB               *sql.DB
	Valkey           *redis.Client
	Sessions         *session.Store
	UserStore        *store.UserStore
	SectionStore     *store.SectionStore
	CategoryStore    *store.CategoryStore
	SubcategoryStore *store.SubcategoryStore
	PostStore        *store.PostStore
	EditStore        *store.PostEditStore
	CommentStore     *store.CommentStore
	PaymentStore     *store.PaymentStore
	SettingsStore    *store.SettingsStore
	RespCache        *cache.ResponseCache
	Resolver         *taxonomy.Resolver
	Admin            *Admin
	Auth             *Auth
	Public           *Public
	Payments         *Payments
}

// newTestEnv creates a complete test environment with all handler
// dependencies. S3 storage is left nil; upload and download handlers
// respond with 503 in tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	sectionStore := store.NewSectionStore(db)
	categoryStore := store.NewCategoryStore(db)
	subcategoryStore := store.NewSubcategoryStore(db)
	postStore := store.NewPostStore(db)
	editStore := store.NewPostEditStore(db)
	commentStore := store.NewCommentStore(db)
	paymentStore := store.NewPaymentStore(db)
	settingsStore := store.NewSettingsStore(db)
	respCache := cache.NewResponseCache(vk, 1*time.Minute)
	resolver := taxonomy.NewResolver(sectionStore, categoryStore, subcategoryStore)

	admin := NewAdmin(userStore, sectionStore, categoryStore, subcategoryStore,
		postStore, editStore, commentStore, settingsStore, nil, respCache)
	auth := NewAuth(sessions, userStore)
	public := NewPublic(resolver, sectionStore, postStore, commentStore,
		paymentStore, settingsStore, nil, respCache)
	payments := NewPayments(paymentStore, "test-webhook-secret")

	return &testEnv{
		DB:               db,
		Valkey:           vk,
		Sessions:         sessions,
		UserStore:        userStore,
		SectionStore:     sectionStore,
		CategoryStore:    categoryStore,
		SubcategoryStore: subcategoryStore,
		PostStore:        postStore,
		EditStore:        editStore,
		CommentStore:     commentStore,
		PaymentStore:     paymentStore,
		SettingsStore:    settingsStore,
		RespCache:        respCache,
		Resolver:         resolver,
		Admin:            admin,
		Auth:             auth,
		Public:           public,
		Payments:         payments,
	}
}

// testUser creates a user with the given role and removes it on cleanup.
func testUser(t *testing.T, env *testEnv, role string) *models.User {
	t.Helper()

	email := "handler-" + uuid.NewString() + "@test.local"
	user, err := env.UserStore.Create(email, "correct-horse-battery", "Handler Test", models.Role(role))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID) })
	return user
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}
