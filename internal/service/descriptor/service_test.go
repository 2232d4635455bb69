package descriptor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
	"github.com/m04kA/SMC-BlinkBooking/pkg/logger"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

const fallbackIcon = "https://solana.com/favicon.ico"

type stubSlots struct {
	slot *domain.Slot
	err  error
}

func (s stubSlots) GetByID(context.Context, string) (*domain.Slot, error) {
	return s.slot, s.err
}

func newService(s stubSlots) *Service {
	return NewService(s, Config{FallbackIcon: fallbackIcon}, logger.NewWriter(io.Discard, "error"))
}

func slotWithImage(image *string) *domain.Slot {
	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	return &domain.Slot{
		ID:        "s-1",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Price:     decimal.RequireFromString("2"),
		Status:    domain.SlotStatusAvailable,
		Creator:   &domain.Creator{Username: "alice", ProfileImageURL: image},
	}
}

func request() Request {
	return Request{SlotID: "s-1", BaseURL: "https://app.example", Path: "/api/action/book", RawQuery: "slotId=s-1"}
}

func TestService_Describe_Enabled(t *testing.T) {
	resp := newService(stubSlots{slot: slotWithImage(nil)}).Describe(context.Background(), request())

	assert.False(t, resp.Disabled)
	assert.Equal(t, actions.TypeAction, resp.Type)
	assert.Equal(t, "Book meeting slot", resp.Title)
	assert.Equal(t, "Book for 2.00 SOL", resp.Label)
	assert.Equal(t, "Book a call with alice. 3/1/2026, 3:00:00 PM – 3/1/2026, 3:30:00 PM. Price: 2.00 SOL.", resp.Description)
	assert.Equal(t, fallbackIcon, resp.Icon)

	require.NotNil(t, resp.Links)
	require.Len(t, resp.Links.Actions, 1)
	action := resp.Links.Actions[0]
	assert.Equal(t, actions.TypeTransaction, action.Type)
	assert.Equal(t, "https://app.example/api/action/book?slotId=s-1", action.Href)
	require.Len(t, action.Parameters, 3)
	assert.Equal(t, "name", action.Parameters[0].Name)
	assert.True(t, action.Parameters[1].Required)
	assert.Equal(t, actions.ParameterTextarea, action.Parameters[2].Type)
	assert.False(t, action.Parameters[2].Required)
}

func TestService_Describe_DisplayZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	svc := NewService(stubSlots{slot: slotWithImage(nil)}, Config{FallbackIcon: fallbackIcon, Location: loc}, logger.NewWriter(io.Discard, "error"))
	resp := svc.Describe(context.Background(), request())

	assert.Contains(t, resp.Description, "3/1/2026, 10:00:00 AM – 3/1/2026, 10:30:00 AM")
}

func TestService_Describe_Icon(t *testing.T) {
	tests := []struct {
		name  string
		image *string
		want  string
	}{
		{"https image used directly", ptr.Ptr("https://cdn.example/a.png"), "https://cdn.example/a.png"},
		{"local upload proxied", ptr.Ptr("/uploads/a.png"), "https://app.example/api/action/book/icon?slotId=s-1"},
		{"http image proxied", ptr.Ptr("http://insecure.example/a.png"), "https://app.example/api/action/book/icon?slotId=s-1"},
		{"blank image falls back", ptr.Ptr("  "), fallbackIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newService(stubSlots{slot: slotWithImage(tt.image)}).Describe(context.Background(), request())
			assert.Equal(t, tt.want, resp.Icon)
		})
	}
}

func TestService_Describe_Disabled(t *testing.T) {
	booked := slotWithImage(nil)
	booked.Status = domain.SlotStatusBooked

	tests := []struct {
		name      string
		slots     stubSlots
		slotID    string
		wantDesc  string
		wantLabel string
	}{
		{"missing id", stubSlots{}, "", "slotId is required in the URL.", "Missing slotId"},
		{"not found", stubSlots{err: slotRepo.ErrSlotNotFound}, "s-1", "This slot was not found.", "Slot not found"},
		{"booked", stubSlots{slot: booked}, "s-1", "This slot is no longer available (booked).", "Slot unavailable"},
		{"storage error", stubSlots{err: errors.New("boom")}, "s-1", "An unknown error occurred. Please try again.", "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request()
			req.SlotID = tt.slotID

			resp := newService(tt.slots).Describe(context.Background(), req)
			assert.True(t, resp.Disabled)
			assert.Equal(t, tt.wantDesc, resp.Description)
			assert.Equal(t, tt.wantLabel, resp.Label)
			assert.Equal(t, fallbackIcon, resp.Icon)
			assert.Nil(t, resp.Links)
		})
	}
}

func TestService_Describe_JSONShape(t *testing.T) {
	resp := newService(stubSlots{err: slotRepo.ErrSlotNotFound}).Describe(context.Background(), request())

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "action",
		"icon": "https://solana.com/favicon.ico",
		"title": "Book meeting slot",
		"description": "This slot was not found.",
		"label": "Slot not found",
		"disabled": true
	}`, string(raw))
}

func TestHref(t *testing.T) {
	assert.Equal(t, "https://a.example/api/action/book", Href("https://a.example/", "/api/action/book", ""))
	assert.Equal(t, "http://localhost:8080/api/action/book?slotId=x&y=1", Href("http://localhost:8080", "/api/action/book", "slotId=x&y=1"))
}
