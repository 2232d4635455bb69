package get_checkpoint

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
)

// Ledger источник blockhash и высот
type Ledger interface {
	GetCheckpoint(ctx context.Context) (*domain.Checkpoint, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
