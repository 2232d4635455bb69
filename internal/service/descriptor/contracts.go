package descriptor

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
)

// SlotReader чтение слота вместе с создателем
type SlotReader interface {
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
