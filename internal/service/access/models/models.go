package models

import (
	"time"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
)

// BookingView данные приватной страницы бронирования
type BookingView struct {
	BookingID   string    `json:"bookingId"`
	SlotID      string    `json:"slotId"`
	CreatorName string    `json:"creatorName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	AmountSol   string    `json:"amountSol"`
	MeetLink    *string   `json:"meetLink,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	CallFor     *string   `json:"callFor,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookingCreatedEvent событие booking.created
// Токен доступа в событие не попадает
type BookingCreatedEvent struct {
	BookingID   string    `json:"bookingId"`
	SlotID      string    `json:"slotId"`
	CreatorID   string    `json:"creatorId"`
	PayerWallet string    `json:"payerWallet"`
	AmountSol   string    `json:"amountSol"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	HasEmail    bool      `json:"hasEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromDomain собирает представление бронирования
func FromDomain(b *domain.Booking, s *domain.Slot) *BookingView {
	view := &BookingView{
		BookingID: b.ID,
		SlotID:    b.SlotID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		AmountSol: b.AmountSol.StringFixed(domain.PriceLabelDecimals),
		MeetLink:  s.MeetLink,
		Name:      b.Name,
		Email:     b.Email,
		CallFor:   b.CallFor,
		CreatedAt: b.CreatedAt,
	}
	if s.Creator != nil {
		view.CreatorName = s.Creator.Username
	}
	return view
}

// NewBookingCreatedEvent собирает событие о новом бронировании
func NewBookingCreatedEvent(b *domain.Booking, s *domain.Slot) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:   b.ID,
		SlotID:      b.SlotID,
		CreatorID:   b.CreatorID,
		PayerWallet: b.PayerWallet,
		AmountSol:   b.AmountSol.String(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		HasEmail:    b.HasEmail(),
		CreatedAt:   b.CreatedAt,
	}
}
