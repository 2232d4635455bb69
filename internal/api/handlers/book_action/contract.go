package book_action

import (
	"context"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/descriptor"
	"github.com/m04kA/SMC-BlinkBooking/internal/service/txbuilder"
	"github.com/m04kA/SMC-BlinkBooking/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
)

type DescriptorService interface {
	Describe(ctx context.Context, req descriptor.Request) *actions.ActionGetResponse
}

type ReserveSlotUseCase interface {
	Execute(ctx context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error)
}

type TransactionBuilder interface {
	Build(ctx context.Context, p txbuilder.Params) (*actions.ActionPostResponse, error)
}

// Notifier асинхронная отправка уведомлений после успешного бронирования
type Notifier interface {
	Dispatch(booking *domain.Booking, slot *domain.Slot, baseURL string)
}

// SiteResolver внешний адрес сервиса
type SiteResolver interface {
	BaseURL(requestOrigin string) string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
