package book_action

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BlinkBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/access"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/descriptor"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/txbuilder"
	"github.com/m04kA/SMC-BlinkBooking/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

const (
	msgInvalidJSON        = "Invalid JSON body"
	msgAccountRequired    = `Invalid body: "account" (wallet) is required`
	msgSlotIDRequired     = "slotId is required"
	msgInvalidAccount     = `Invalid "account" (wallet) provided`
	msgInvalidDataPrefix  = `Invalid "data" field: `
	msgSlotNotAvailable   = "Slot not found or not available"
	msgInvalidPrice       = "Invalid slot price"
	msgCheckpointFailed   = "Failed to fetch a recent blockhash, please retry"
	msgUnknownError       = "An unknown error occurred"
	queryParamSlotID      = "slotId"
	queryParamAmount      = "amount"
	dataFieldName         = "name"
	dataFieldEmail        = "email"
	dataFieldCallFor      = "callFor"
	defaultProtocolStatus = http.StatusInternalServerError
)

// Handler обработчик протокола action бронирования: describe, reserve, preflight
type Handler struct {
	descriptor DescriptorService
	reserver   ReserveSlotUseCase
	builder    TransactionBuilder
	notifier   Notifier
	site       SiteResolver
	network    string
	logger     Logger
}

func NewHandler(
	descriptor DescriptorService,
	reserver ReserveSlotUseCase,
	builder TransactionBuilder,
	notifier Notifier,
	site SiteResolver,
	network string,
	logger Logger,
) *Handler {
	return &Handler{
		descriptor: descriptor,
		reserver:   reserver,
		builder:    builder,
		notifier:   notifier,
		site:       site,
		network:    network,
		logger:     logger,
	}
}

// Preflight набор заголовков, общий для всех ответов action
func (h *Handler) Preflight() http.Header {
	return actions.Headers(h.network, actions.Version)
}

// Describe discovery документ слота, всегда успешный
func (h *Handler) Describe(ctx context.Context, rc RequestContext) *actions.ActionGetResponse {
	return h.descriptor.Describe(ctx, descriptor.Request{
		SlotID:   rc.SlotID,
		BaseURL:  rc.BaseURL,
		Path:     rc.Path,
		RawQuery: rc.RawQuery,
	})
}

// Reserve бронирует слот и возвращает неподписанную транзакцию
// Blockhash запрашивается и уведомление отправляется только после фиксации бронирования
func (h *Handler) Reserve(ctx context.Context, rc RequestContext, body actions.ActionPostRequest) (*actions.ActionPostResponse, *ProtocolError) {
	if strings.TrimSpace(body.Account) == "" {
		return nil, badRequest(msgAccountRequired)
	}
	if strings.TrimSpace(rc.SlotID) == "" {
		return nil, badRequest(msgSlotIDRequired)
	}

	req := &reserve_slot.Request{
		SlotID:  rc.SlotID,
		Payer:   body.Account,
		Name:    body.StringField(dataFieldName),
		Email:   body.StringField(dataFieldEmail),
		CallFor: body.StringField(dataFieldCallFor),
	}
	if rc.Amount != "" {
		amount, err := decimal.NewFromString(rc.Amount)
		if err != nil {
			return nil, badRequest(msgInvalidPrice)
		}
		req.ExpectedAmount = &amount
	}

	result, err := h.reserver.Execute(ctx, req)
	if err != nil {
		return nil, h.reserveError(rc, err)
	}

	booking, slot := result.Booking, result.Slot

	joinURL := ""
	if slot.HasMeetLink() {
		joinURL = access.JoinURL(rc.BaseURL, booking.ID, booking.AccessToken)
	}

	envelope, err := h.builder.Build(ctx, txbuilder.Params{
		Payer:         booking.PayerWallet,
		CreatorWallet: slot.Creator.Wallet,
		Lamports:      result.Lamports,
		Memo: txbuilder.BuildMemo(
			slot.ID,
			slot.Creator.Username,
			ptr.Deref(booking.Name),
			ptr.Deref(booking.Email),
			ptr.Deref(booking.CallFor),
		),
		Message: txbuilder.BuildMessage(slot, joinURL),
	})
	if err != nil {
		// Бронирование уже зафиксировано и не откатывается
		h.logger.Error("POST /api/action/book - Transaction build failed after booking id=%s for slot id=%s: %v",
			booking.ID, slot.ID, err)
		if errors.Is(err, txbuilder.ErrCheckpointUnavailable) {
			return nil, serverError(msgCheckpointFailed)
		}
		return nil, serverError(msgUnknownError)
	}

	h.notifier.Dispatch(booking, slot, rc.BaseURL)

	h.logger.Info("POST /api/action/book - Booking created: booking_id=%s, slot_id=%s, lamports=%d",
		booking.ID, slot.ID, result.Lamports)
	return envelope, nil
}

func (h *Handler) reserveError(rc RequestContext, err error) *ProtocolError {
	switch {
	case errors.Is(err, reserve_slot.ErrInvalidPayer):
		h.logger.Warn("POST /api/action/book - Invalid account: slot_id=%s", rc.SlotID)
		return badRequest(msgInvalidAccount)

	case errors.Is(err, reserve_slot.ErrInvalidInput):
		h.logger.Warn("POST /api/action/book - Invalid data: slot_id=%s, error=%v", rc.SlotID, err)
		return badRequest(msgInvalidDataPrefix + detail(err, reserve_slot.ErrInvalidInput))

	case errors.Is(err, reserve_slot.ErrSlotNotFound), errors.Is(err, reserve_slot.ErrSlotUnavailable):
		h.logger.Warn("POST /api/action/book - Slot not available: slot_id=%s", rc.SlotID)
		return badRequest(msgSlotNotAvailable)

	case errors.Is(err, reserve_slot.ErrInvalidPrice):
		h.logger.Warn("POST /api/action/book - Invalid price: slot_id=%s, error=%v", rc.SlotID, err)
		return badRequest(msgInvalidPrice)

	default:
		h.logger.Error("POST /api/action/book - Failed to reserve slot: slot_id=%s, error=%v", rc.SlotID, err)
		return &ProtocolError{Status: defaultProtocolStatus, Message: msgUnknownError}
	}
}

// detail текст ошибки без префикса sentinel ошибки
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// requestContext собирает явный контекст из HTTP запроса
func (h *Handler) requestContext(r *http.Request) RequestContext {
	q := r.URL.Query()
	return RequestContext{
		SlotID:   strings.TrimSpace(q.Get(queryParamSlotID)),
		BaseURL:  h.site.BaseURL(handlers.RequestOrigin(r)),
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Amount:   strings.TrimSpace(q.Get(queryParamAmount)),
	}
}

// ServeDescribe GET /api/action/book
func (h *Handler) ServeDescribe(w http.ResponseWriter, r *http.Request) {
	actions.Apply(w, h.Preflight())
	handlers.RespondJSON(w, http.StatusOK, h.Describe(r.Context(), h.requestContext(r)))
}

// ServePreflight OPTIONS /api/action/book
func (h *Handler) ServePreflight(w http.ResponseWriter, _ *http.Request) {
	actions.Apply(w, h.Preflight())
	w.WriteHeader(http.StatusNoContent)
}

// ServeReserve POST /api/action/book
func (h *Handler) ServeReserve(w http.ResponseWriter, r *http.Request) {
	actions.Apply(w, h.Preflight())

	var body postBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /api/action/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	account, ok := body.Account.(string)
	if !ok || strings.TrimSpace(account) == "" {
		h.logger.Warn("POST /api/action/book - Missing account")
		handlers.RespondBadRequest(w, msgAccountRequired)
		return
	}

	envelope, perr := h.Reserve(r.Context(), h.requestContext(r), actions.ActionPostRequest{
		Account: account,
		Data:    body.Data,
	})
	if perr != nil {
		handlers.RespondError(w, perr.Status, perr.Message)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, envelope)
}
