// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// PaymentStore records purchases of priced posts. Provider callbacks are
// idempotent on the payment reference.
type PaymentStore struct {
	db *sql.DB
}

// NewPaymentStore returns a new PaymentStore.
func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentColumns = `id, post_id, reference, amount_cents, currency, status, payer_email, raw_payload, created_at, updated_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	err := scanner.Scan(
		&p.ID, &p.PostID, &p.Reference, &p.AmountCents, &p.Currency,
		&p.Status, &p.PayerEmail, &p.RawPayload, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByReference retrieves a payment by its provider reference.
// Returns nil if not found.
func (s *PaymentStore) FindByReference(reference string) (*models.Payment, error) {
	row := s.db.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE reference = $1`, reference)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment by reference: %w", err)
	}
	return p, nil
}

// RecordCallback upserts the payment state reported by the provider.
// Replays of the same reference update the row in place instead of
// failing, which keeps callback processing idempotent. A row that
// already reached 'paid' keeps that status even when the provider
// replays an older pending or failed callback out of order.
func (s *PaymentStore) RecordCallback(p *models.Payment) (*models.Payment, error) {
	row := s.db.QueryRow(`
		INSERT INTO payments (post_id, reference, amount_cents, currency, status, payer_email, raw_payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (reference) DO UPDATE SET
			status = CASE WHEN payments.status = 'paid' THEN payments.status ELSE EXCLUDED.status END,
			amount_cents = EXCLUDED.amount_cents,
			payer_email = COALESCE(EXCLUDED.payer_email, payments.payer_email),
			raw_payload = EXCLUDED.raw_payload,
			updated_at = NOW()
		RETURNING `+paymentColumns,
		p.PostID, p.Reference, p.AmountCents, p.Currency, p.Status, p.PayerEmail, p.RawPayload,
	)
	result, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("record payment callback: %w", err)
	}
	return result, nil
}

// HasPaidFor reports whether a paid payment exists for the given post
// and reference. Used to unlock gated downloads.
func (s *PaymentStore) HasPaidFor(postID uuid.UUID, reference string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE reference = $1 AND post_id = $2 AND status = 'paid'
		)
	`, reference, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check paid payment: %w", err)
	}
	return exists, nil
}
