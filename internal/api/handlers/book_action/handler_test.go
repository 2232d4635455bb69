package book_action_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BlinkBooking/internal/api/handlers/book_action"
	"github.com/m04kA/SMC-BlinkBooking/internal/config"
	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/access"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/descriptor"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/txbuilder"
	"github.com/m04kA/SMC-BlinkBooking/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
	"github.com/m04kA/SMC-BlinkBooking/pkg/logger"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

const (
	testSlotID  = "6f1c2a8e-0000-4000-8000-000000000001"
	testPayer   = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	testCreator = "Vote111111111111111111111111111111111111111"
	publicURL   = "https://blink.example"
)

// memoryStore хранилище слотов и бронирований в памяти
type memoryStore struct {
	mu       sync.Mutex
	slot     domain.Slot
	bookings []domain.Booking
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.slot.ID {
		return nil, slotRepo.ErrSlotNotFound
	}
	cp := s.slot
	return &cp, nil
}

func (s *memoryStore) MarkBooked(_ context.Context, id string, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.slot.ID || !s.slot.IsAvailable() || !s.slot.Price.Equal(price) {
		return slotRepo.ErrSlotNotAvailable
	}
	s.slot.Status = domain.SlotStatusBooked
	return nil
}

func (s *memoryStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.SlotID == b.SlotID {
			return nil, bookingRepo.ErrDuplicateBooking
		}
	}
	b.ID = "b-1"
	s.bookings = append(s.bookings, *b)
	return b, nil
}

type directTx struct{}

func (directTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLedger struct {
	err error
}

func (f fakeLedger) GetLatestCheckpoint(context.Context) (*domain.Checkpoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Checkpoint{Blockhash: solana.Hash{7}.String(), LastValidBlockHeight: 100}, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	baseURL string
	calls   int
}

func (n *recordingNotifier) Dispatch(_ *domain.Booking, _ *domain.Slot, baseURL string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.baseURL = baseURL
}

type fixture struct {
	store    *memoryStore
	notifier *recordingNotifier
	router   http.Handler
}

func newFixture(t *testing.T, ledger fakeLedger, meetLink *string) *fixture {
	t.Helper()

	log := logger.NewWriter(io.Discard, "error")
	store := &memoryStore{slot: domain.Slot{
		ID:        testSlotID,
		CreatorID: "c-1",
		StartTime: time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC),
		Price:     decimal.NewFromInt(2),
		Status:    domain.SlotStatusAvailable,
		MeetLink:  meetLink,
		Creator:   &domain.Creator{ID: "c-1", Wallet: testCreator, Username: "alice"},
	}}
	notifier := &recordingNotifier{}

	h := book_action.NewHandler(
		descriptor.NewService(store, descriptor.Config{FallbackIcon: "https://solana.com/favicon.ico"}, log),
		reserve_slot.NewUseCase(store, store, access.Issuer{}, directTx{}, nil, log),
		txbuilder.NewService(ledger, log),
		notifier,
		config.SiteConfig{PublicURL: publicURL},
		"devnet",
		log,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/action/book", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ServeDescribe(w, r)
		case http.MethodPost:
			h.ServeReserve(w, r)
		case http.MethodOptions:
			h.ServePreflight(w, r)
		}
	})

	return &fixture{store: store, notifier: notifier, router: mux}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e actions.ActionError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	return e.Message
}

func assertProtocolHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, actions.Version, rec.Header().Get(actions.HeaderActionVersion))
	assert.Equal(t, actions.BlockchainID("devnet"), rec.Header().Get(actions.HeaderBlockchainIDs))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandler_BookingFlow(t *testing.T) {
	f := newFixture(t, fakeLedger{}, nil)
	target := "/api/action/book?slotId=" + testSlotID

	// Discovery
	rec := f.do(http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assertProtocolHeaders(t, rec)

	var doc actions.ActionGetResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.False(t, doc.Disabled)
	assert.Contains(t, doc.Label, "2.00")
	require.NotNil(t, doc.Links)
	require.Len(t, doc.Links.Actions, 1)
	assert.Len(t, doc.Links.Actions[0].Parameters, 3)
	assert.Contains(t, doc.Links.Actions[0].Href, "slotId="+testSlotID)

	// Первое бронирование
	rec = f.do(http.MethodPost, target, `{"account":"`+testPayer+`","data":{"name":"Bob"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assertProtocolHeaders(t, rec)

	var envelope actions.ActionPostResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, actions.TypeTransaction, envelope.Type)
	assert.Contains(t, envelope.Message, "2.00")
	assert.NotContains(t, envelope.Message, "Join link")

	raw, err := base64.StdEncoding.DecodeString(envelope.Transaction)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(raw), txbuilder.PacketDataSize)

	// Повторная попытка
	rec = f.do(http.MethodPost, target, `{"account":"`+testPayer+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Slot not found or not available", decodeMessage(t, rec))

	assert.Len(t, f.store.bookings, 1)
	assert.Equal(t, domain.SlotStatusBooked, f.store.slot.Status)
	assert.Equal(t, "Bob", ptr.Deref(f.store.bookings[0].Name))
	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, publicURL, f.notifier.baseURL)

	// После бронирования discovery отдает disabled документ
	rec = f.do(http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = actions.ActionGetResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.True(t, doc.Disabled)
}

func TestHandler_ReserveWithMeetLink(t *testing.T) {
	f := newFixture(t, fakeLedger{}, ptr.Ptr("https://meet.example/abc"))

	rec := f.do(http.MethodPost, "/api/action/book?slotId="+testSlotID, `{"account":"`+testPayer+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope actions.ActionPostResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, f.store.bookings, 1)

	joinURL := access.JoinURL(publicURL, f.store.bookings[0].ID, f.store.bookings[0].AccessToken)
	assert.True(t, strings.HasSuffix(envelope.Message, ". Join link: "+joinURL))
}

func TestHandler_AccessTokenOnlyInMessage(t *testing.T) {
	f := newFixture(t, fakeLedger{}, ptr.Ptr("https://meet.example/abc"))
	target := "/api/action/book?slotId=" + testSlotID

	before := f.do(http.MethodGet, target, "").Body.String()

	rec := f.do(http.MethodPost, target, `{"account":"`+testPayer+`","data":{"name":"Bob","email":"bob@example.com","callFor":"intro"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope actions.ActionPostResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))

	after := f.do(http.MethodGet, target, "").Body.String()

	require.Len(t, f.store.bookings, 1)
	token := f.store.bookings[0].AccessToken
	require.NotEmpty(t, token)

	// Описание слота токен не содержит ни до, ни после бронирования
	assert.NotContains(t, before, token)
	assert.NotContains(t, after, token)

	// В транзакции (перевод и memo) токена нет
	raw, err := base64.StdEncoding.DecodeString(envelope.Transaction)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte("Book slot "+testSlotID)))
	assert.False(t, bytes.Contains(raw, []byte(token)))
	assert.NotContains(t, envelope.Transaction, token)

	// Токен есть только в ссылке внутри сообщения
	assert.Equal(t, 1, strings.Count(envelope.Message, token))
	assert.Contains(t, envelope.Message, "/booking/"+f.store.bookings[0].ID+"?token="+token)
}

func TestHandler_ReserveRejections(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		body    string
		message string
	}{
		{
			name:    "invalid json",
			target:  "/api/action/book?slotId=" + testSlotID,
			body:    `{"account":`,
			message: "Invalid JSON body",
		},
		{
			name:    "empty body object",
			target:  "/api/action/book?slotId=" + testSlotID,
			body:    `{}`,
			message: `Invalid body: "account" (wallet) is required`,
		},
		{
			name:    "account is not a string",
			target:  "/api/action/book?slotId=" + testSlotID,
			body:    `{"account":42}`,
			message: `Invalid body: "account" (wallet) is required`,
		},
		{
			name:    "missing slot id",
			target:  "/api/action/book",
			body:    `{"account":"` + testPayer + `"}`,
			message: "slotId is required",
		},
		{
			name:    "invalid wallet",
			target:  "/api/action/book?slotId=" + testSlotID,
			body:    `{"account":"not-a-wallet"}`,
			message: `Invalid "account" (wallet) provided`,
		},
		{
			name:    "invalid email",
			target:  "/api/action/book?slotId=" + testSlotID,
			body:    `{"account":"` + testPayer + `","data":{"email":"nope"}}`,
			message: `Invalid "data" field: `,
		},
		{
			name:    "unknown slot",
			target:  "/api/action/book?slotId=missing",
			body:    `{"account":"` + testPayer + `"}`,
			message: "Slot not found or not available",
		},
		{
			name:    "amount mismatch",
			target:  "/api/action/book?slotId=" + testSlotID + "&amount=3",
			body:    `{"account":"` + testPayer + `"}`,
			message: "Invalid slot price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, fakeLedger{}, nil)

			rec := f.do(http.MethodPost, tt.target, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assertProtocolHeaders(t, rec)
			assert.True(t, strings.HasPrefix(decodeMessage(t, rec), tt.message))

			assert.Empty(t, f.store.bookings)
			assert.Equal(t, domain.SlotStatusAvailable, f.store.slot.Status)
			assert.Zero(t, f.notifier.calls)
		})
	}
}

func TestHandler_ReserveCheckpointFailure(t *testing.T) {
	f := newFixture(t, fakeLedger{err: errors.New("rpc down")}, nil)

	rec := f.do(http.MethodPost, "/api/action/book?slotId="+testSlotID, `{"account":"`+testPayer+`"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch a recent blockhash, please retry", decodeMessage(t, rec))

	// Бронирование зафиксировано до запроса blockhash и остается
	assert.Len(t, f.store.bookings, 1)
	assert.Equal(t, domain.SlotStatusBooked, f.store.slot.Status)
	assert.Zero(t, f.notifier.calls)
}

func TestHandler_Preflight(t *testing.T) {
	f := newFixture(t, fakeLedger{}, nil)

	rec := f.do(http.MethodOptions, "/api/action/book", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, actions.Version, rec.Header().Get(actions.HeaderActionVersion))
}

func TestHandler_DescribeMissingSlot(t *testing.T) {
	f := newFixture(t, fakeLedger{}, nil)

	rec := f.do(http.MethodGet, "/api/action/book", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc actions.ActionGetResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.True(t, doc.Disabled)
	assert.Nil(t, doc.Links)
}
