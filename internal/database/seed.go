package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a starter taxonomy, a few published posts, and the default
// ad configuration. It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@zonavortex.local", string(hash), "Admin", "admin", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter taxonomy: two sections, each with a category, the first with
	// a subcategory.
	var blogID, recursosID string
	err = db.QueryRow(`
		INSERT INTO sections (slug, name, description, plural_label, sort_order, is_main, icon)
		VALUES ('blog', 'Blog', 'Artículos y novedades', 'artículos', 0, TRUE, 'newspaper')
		RETURNING id
	`).Scan(&blogID)
	if err != nil {
		return fmt.Errorf("seed insert blog section: %w", err)
	}
	err = db.QueryRow(`
		INSERT INTO sections (slug, name, description, plural_label, sort_order, is_main, icon)
		VALUES ('recursos', 'Recursos', 'Material descargable', 'recursos', 1, FALSE, 'download')
		RETURNING id
	`).Scan(&recursosID)
	if err != nil {
		return fmt.Errorf("seed insert recursos section: %w", err)
	}

	var idiomasID string
	err = db.QueryRow(`
		INSERT INTO categories (slug, name, section_id, gradient)
		VALUES ('idiomas', 'Idiomas', $1, 'from-blue-500 to-cyan-400')
		RETURNING id
	`, blogID).Scan(&idiomasID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}
	if _, err := db.Exec(`
		INSERT INTO categories (slug, name, section_id, gradient)
		VALUES ('guias', 'Guías', $1, 'from-purple-500 to-pink-400')
	`, recursosID); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO subcategories (slug, name, category_id)
		VALUES ('ingles', 'Inglés', $1)
	`, idiomasID); err != nil {
		return fmt.Errorf("seed insert subcategory: %w", err)
	}

	// A couple of published posts so listings render something in dev.
	if _, err := db.Exec(`
		INSERT INTO posts (slug, title, excerpt, content, status, published_at,
		                   section_id, category_id, author_id, keywords)
		VALUES
		('bienvenidos-a-zona-vortex', 'Bienvenidos a Zona Vortex',
		 'Primer artículo del blog.', '<p>Bienvenidos.</p>',
		 'published', NOW(), $1, $2, $3, 'bienvenida,blog'),
		('guia-de-ingles', 'Guía de Inglés',
		 'Una guía introductoria.', '<p>Contenido de la guía.</p>',
		 'published', NOW(), $1, $2, $3, 'inglés,idiomas,guía')
	`, blogID, idiomasID, adminID); err != nil {
		return fmt.Errorf("seed insert posts: %w", err)
	}

	// Default ad configuration (interstitial off).
	if _, err := db.Exec(`
		INSERT INTO site_settings (key, value)
		VALUES ('ad_config', '{"ads_enabled": false, "interstitial_enabled": false, "countdown_seconds": 5}')
		ON CONFLICT (key) DO NOTHING
	`); err != nil {
		return fmt.Errorf("seed insert ad config: %w", err)
	}

	slog.Info("database seeded with default admin user and starter content",
		"email", "admin@zonavortex.local",
		"password", "admin",
	)

	return nil
}
