// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gate implements the interstitial flow shown before gated
// actions such as file downloads. An intercepted action is parked while
// an ad is visible and a countdown runs; the visitor can proceed only
// after the countdown reaches zero, and dismissing the overlay discards
// the parked action entirely.
//
// ConfigSource is satisfied by store.SettingsStore, which is where the
// admin ad settings live.
package gate

import (
	"errors"
	"sync"
	"time"

	"zonavortex/internal/models"
)

// State is the gate's position in its two-state cycle.
type State int

const (
	// StateIdle means no interstitial is showing and nothing is parked.
	StateIdle State = iota
	// StateAdVisible means an action is parked behind a running countdown.
	StateAdVisible
)

var (
	// ErrIdle reports a Confirm or Dismiss with no interstitial showing.
	ErrIdle = errors.New("gate: no interstitial visible")
	// ErrCountdownActive reports a Confirm before the countdown expired.
	ErrCountdownActive = errors.New("gate: countdown still running")
)

// ConfigSource supplies the current ad configuration. An error is
// treated as "ads unavailable" and the gate fails open.
type ConfigSource interface {
	AdConfig() (models.AdConfig, error)
}

// Gate is the interstitial state machine. Safe for concurrent use.
type Gate struct {
	config ConfigSource
	now    func() time.Time

	mu       sync.Mutex
	state    State
	target   string
	pending  func()
	deadline time.Time
}

// New returns an idle Gate reading its configuration from source.
func New(source ConfigSource) *Gate {
	return &Gate{config: source, now: time.Now}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Intercept gates the action behind the interstitial. target names the
// navigation being gated. When the interstitial is disabled, or the
// configuration cannot be loaded, the action runs immediately — an ad
// problem must never block the visitor. Otherwise the action is parked,
// the countdown starts, and any previously parked action is discarded:
// only the most recent intercept can ever be confirmed.
func (g *Gate) Intercept(target string, action func()) {
	cfg, err := g.config.AdConfig()
	if err != nil || !cfg.AdsEnabled || !cfg.InterstitialEnabled {
		// Failing open still supersedes whatever was parked: otherwise
		// a later Confirm would replay a navigation the visitor already
		// moved past.
		g.mu.Lock()
		g.state = StateIdle
		g.target = ""
		g.pending = nil
		g.mu.Unlock()
		action()
		return
	}

	countdown := time.Duration(cfg.CountdownSeconds) * time.Second

	g.mu.Lock()
	g.state = StateAdVisible
	g.target = target
	g.pending = action
	g.deadline = g.now().Add(countdown)
	g.mu.Unlock()
}

// Target returns the navigation currently parked behind the
// interstitial, or "" when idle.
func (g *Gate) Target() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAdVisible {
		return ""
	}
	return g.target
}

// Remaining returns how long until the countdown expires, or zero if it
// already has or nothing is showing.
func (g *Gate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAdVisible {
		return 0
	}
	if left := g.deadline.Sub(g.now()); left > 0 {
		return left
	}
	return 0
}

// Confirm runs the parked action and returns the gate to idle. It fails
// with ErrIdle when nothing is showing and ErrCountdownActive while the
// countdown runs, leaving the parked action in place. The action runs at
// most once per intercept.
func (g *Gate) Confirm() error {
	g.mu.Lock()

	if g.state != StateAdVisible {
		g.mu.Unlock()
		return ErrIdle
	}
	if g.now().Before(g.deadline) {
		g.mu.Unlock()
		return ErrCountdownActive
	}

	action := g.pending
	g.pending = nil
	g.target = ""
	g.state = StateIdle
	g.mu.Unlock()

	if action != nil {
		action()
	}
	return nil
}

// Dismiss closes the interstitial and discards the parked action. The
// discarded action never runs, not even through a later Confirm.
func (g *Gate) Dismiss() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAdVisible {
		return ErrIdle
	}
	g.pending = nil
	g.target = ""
	g.state = StateIdle
	return nil
}
