package access

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/resend"
)

// BookingReader чтение бронирования
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// SlotReader чтение слота вместе с создателем
type SlotReader interface {
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
}

// TransactionManager read-only транзакции для чтения бронирования
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mailer отправка писем
type Mailer interface {
	Send(ctx context.Context, email resend.Email) (string, error)
}

// Publisher публикация событий в брокер
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
