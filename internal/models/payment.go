// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks a payment through the provider callback flow.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records a purchase of a priced/premium post. The provider
// reference is unique; callback processing is idempotent on it.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	PostID      *uuid.UUID    `json:"post_id,omitempty"`
	Reference   string        `json:"reference"`
	AmountCents int           `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	PayerEmail  *string       `json:"payer_email,omitempty"`
	RawPayload  []byte        `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPaid reports whether the payment completed successfully.
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}
