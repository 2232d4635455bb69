package get_checkpoint

import (
	"net/http"

	"github.com/m04kA/SMC-BlinkBooking/internal/api/handlers"
)

type Handler struct {
	ledger Ledger
	logger Logger
}

func NewHandler(ledger Ledger, logger Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle GET /api/solana/blockhash
// Хранилище не затрагивается; текст ошибки узла отдается клиенту как есть
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	cp, err := h.ledger.GetCheckpoint(r.Context())
	if err != nil {
		h.logger.Error("GET /solana/blockhash - Failed to fetch checkpoint: %v", err)
		handlers.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("GET /solana/blockhash - blockhash=%s, slot=%d", cp.Blockhash, cp.Slot)
	handlers.RespondJSON(w, http.StatusOK, fromDomain(cp))
}
