package txbuilder

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
)

// CheckpointSource источник свежего blockhash
type CheckpointSource interface {
	GetLatestCheckpoint(ctx context.Context) (*domain.Checkpoint, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
