package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlotStatus represents the lifecycle state of a slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

// Slot is a bookable time window with a price in SOL
type Slot struct {
	ID        string
	CreatorID string
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
	Status    SlotStatus
	MeetLink  *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Creator is filled by the slot store when the slot is read with its owner
	Creator *Creator
}

// IsAvailable returns true if the slot can still be booked
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}

// HasMeetLink returns true if the creator attached a meeting link
func (s *Slot) HasMeetLink() bool {
	return s.MeetLink != nil && trimmed(*s.MeetLink) != ""
}

// Lamports returns the settlement amount, floor(price * 10^9)
func (s *Slot) Lamports() decimal.Decimal {
	return s.Price.Shift(LamportsDecimals).Floor()
}

// PriceLabel formats the price for people, always with two decimals
func (s *Slot) PriceLabel() string {
	return s.Price.StringFixed(PriceLabelDecimals)
}
