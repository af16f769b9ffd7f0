// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"zonavortex/internal/models"
)

// adConfigKey is the site_settings row holding the ad configuration.
const adConfigKey = "ad_config"

// SettingsStore manages site-wide settings stored as JSON documents.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore returns a new SettingsStore.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// AdConfig loads the stored ad configuration. A missing row yields the
// fail-open default (ads disabled) without an error; a malformed row or
// query failure returns an error and the caller decides how to degrade.
func (s *SettingsStore) AdConfig() (models.AdConfig, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM site_settings WHERE key = $1`, adConfigKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.DefaultAdConfig(), nil
	}
	if err != nil {
		return models.DefaultAdConfig(), fmt.Errorf("load ad config: %w", err)
	}

	cfg := models.DefaultAdConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return models.DefaultAdConfig(), fmt.Errorf("parse ad config: %w", err)
	}
	if cfg.CountdownSeconds < 1 {
		cfg.CountdownSeconds = models.DefaultAdConfig().CountdownSeconds
	}
	return cfg, nil
}

// SaveAdConfig stores the ad configuration, creating the row if needed.
func (s *SettingsStore) SaveAdConfig(cfg models.AdConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal ad config: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO site_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, adConfigKey, raw)
	if err != nil {
		return fmt.Errorf("save ad config: %w", err)
	}
	return nil
}
