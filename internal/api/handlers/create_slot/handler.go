package create_slot

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BlinkBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BlinkBooking/internal/usecase/create_slot"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgMissingField       = "Missing required field: "
	msgCreatorNotFound    = "Creator not found"
)

type Handler struct {
	useCase CreateSlotUseCase
	logger  Logger
}

func NewHandler(useCase CreateSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/slot/create
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slot/create - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if field := req.missingField(); field != "" {
		h.logger.Warn("POST /slot/create - Missing field %s", field)
		handlers.RespondBadRequest(w, msgMissingField+field)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.toUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, create_slot.ErrInvalidInput):
			h.logger.Warn("POST /slot/create - Validation failed: creator_id=%s, error=%v", req.CreatorID, err)
			handlers.RespondBadRequest(w, strings.TrimPrefix(err.Error(), create_slot.ErrInvalidInput.Error()+": "))

		case errors.Is(err, create_slot.ErrCreatorNotFound):
			h.logger.Warn("POST /slot/create - Creator not found: creator_id=%s", req.CreatorID)
			handlers.RespondBadRequest(w, msgCreatorNotFound)

		default:
			h.logger.Error("POST /slot/create - Failed to create slot: creator_id=%s, error=%v", req.CreatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slot/create - Slot created successfully: slot_id=%s, creator_id=%s", result.ID, result.CreatorID)
	handlers.RespondJSON(w, http.StatusCreated, fromUseCaseResponse(result))
}
