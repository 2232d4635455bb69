package get_booking_access

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BlinkBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/access"
)

const (
	msgInvalidLink = "Invalid or expired link"
)

type Handler struct {
	service AccessService
	logger  Logger
}

func NewHandler(service AccessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/bookings/{bookingId}?token=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	token := r.URL.Query().Get("token")

	// Отсутствующий токен не отличается от неверного
	booking, err := h.service.Verify(r.Context(), bookingID, token)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgInvalidLink)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
