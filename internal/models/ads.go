// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// AdConfig is the site-wide ad placement configuration. It is stored as
// a single settings row and drives both banner slots and the interstitial
// gate shown before downloads.
type AdConfig struct {
	AdsEnabled          bool              `json:"ads_enabled"`
	InterstitialEnabled bool              `json:"interstitial_enabled"`
	CountdownSeconds    int               `json:"countdown_seconds"`
	BannerSlots         map[string]string `json:"banner_slots,omitempty"` // slot name → ad unit id
}

// DefaultAdConfig is the fail-open shape used whenever the stored
// configuration cannot be loaded: ads fully disabled so navigation is
// never blocked on a config error.
func DefaultAdConfig() AdConfig {
	return AdConfig{
		AdsEnabled:          false,
		InterstitialEnabled: false,
		CountdownSeconds:    5,
	}
}
