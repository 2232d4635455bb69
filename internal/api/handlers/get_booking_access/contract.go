package get_booking_access

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/service/access/models"
)

type AccessService interface {
	Verify(ctx context.Context, bookingID, token string) (*models.BookingView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
