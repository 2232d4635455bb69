package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is the record of a successful reservation of a slot.
// Created together with the slot status flip, never mutated afterwards.
type Booking struct {
	ID          string
	SlotID      string
	CreatorID   string // denormalized from the slot
	PayerWallet string
	AmountSol   decimal.Decimal // slot price at booking time

	Name    *string
	Email   *string
	CallFor *string

	// AccessToken grants access to the private confirmation view
	AccessToken string

	CreatedAt time.Time
}

// HasEmail returns true if the payer left a contact address
func (b *Booking) HasEmail() bool {
	return b.Email != nil && trimmed(*b.Email) != ""
}
