// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"zonavortex/internal/models"
	"zonavortex/internal/store"
)

// signatureHeader carries the provider's HMAC-SHA256 of the raw body.
const signatureHeader = "X-Payment-Signature"

// Payments handles the payment provider's server-to-server callbacks.
type Payments struct {
	paymentStore *store.PaymentStore
	secret       string
}

// NewPayments creates the Payments handler group. An empty secret
// disables signature verification (local development only).
func NewPayments(paymentStore *store.PaymentStore, secret string) *Payments {
	return &Payments{paymentStore: paymentStore, secret: secret}
}

// callbackPayload is the provider's callback body.
type callbackPayload struct {
	Reference   string  `json:"reference"`
	PostID      *string `json:"post_id,omitempty"`
	AmountCents int     `json:"amount_cents"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	PayerEmail  *string `json:"payer_email,omitempty"`
}

// Callback ingests a payment status notification. Processing is
// idempotent on the provider reference: the provider retries until it
// sees a 2xx, so replays must not duplicate rows or flip a paid payment
// back. Malformed bodies are 400; a reference we cannot tie to a post is
// still recorded and acknowledged so the provider stops retrying.
func (p *Payments) Callback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if p.secret != "" && !p.verifySignature(body, r.Header.Get(signatureHeader)) {
		slog.Warn("payment callback signature mismatch")
		respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload callbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "malformed payload")
		return
	}
	if payload.Reference == "" {
		respondError(w, http.StatusBadRequest, "missing reference")
		return
	}
	status, ok := parsePaymentStatus(payload.Status)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	payment := &models.Payment{
		Reference:   payload.Reference,
		AmountCents: payload.AmountCents,
		Currency:    payload.Currency,
		Status:      status,
		PayerEmail:  payload.PayerEmail,
		RawPayload:  body,
	}
	if payload.PostID != nil {
		if id, err := uuid.Parse(*payload.PostID); err == nil {
			payment.PostID = &id
		}
	}

	if _, err := p.paymentStore.RecordCallback(payment); err != nil {
		slog.Error("payment record failed", "error", err, "reference", payload.Reference)
		respondError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	slog.Info("payment callback processed", "reference", payload.Reference, "status", status)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// verifySignature checks the hex HMAC-SHA256 of the body.
func (p *Payments) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// parsePaymentStatus maps provider status strings onto ours.
func parsePaymentStatus(s string) (models.PaymentStatus, bool) {
	switch models.PaymentStatus(s) {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed:
		return models.PaymentStatus(s), true
	}
	return "", false
}
