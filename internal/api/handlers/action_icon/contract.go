package action_icon

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/imagefetch"
)

type SlotReader interface {
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
}

type ImageFetcher interface {
	Get(ctx context.Context, ref string, defaultType string) (*imagefetch.Image, error)
	Remote(ctx context.Context, url string, defaultType string) (*imagefetch.Image, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
