package reserve_slot

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/metrics"
)

// Исходы бронирования для метрик
const (
	outcomeBooked      = "booked"
	outcomeUnavailable = "unavailable"
	outcomeRejected    = "rejected"
	outcomeError       = "error"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-BlinkBooking/internal/usecase/reserve_slot")

// UseCase use case бронирования слота
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	tokens      TokenIssuer
	txManager   TransactionManager
	metrics     *metrics.Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	tokens TokenIssuer,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		tokens:      tokens,
		txManager:   txManager,
		metrics:     m,
		logger:      logger,
	}
}

// Execute выполняет бронирование слота
// Переход available -> booked и вставка бронирования выполняются в одной транзакции.
// Гонку разрешает условный UPDATE: проигравшие получают ErrSlotUnavailable, повторов нет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "reserve_slot.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("slot.id", req.SlotID))

	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveReservation(outcomeOf(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: slot=%s, payer=%s", req.SlotID, req.Payer)

	// 1. Валидация кошелька плательщика
	payer, err := validatePayer(req.Payer)
	if err != nil {
		uc.logger.Warn("ReserveSlot: invalid payer: %v", err)
		return nil, err
	}

	// 2. Валидация данных формы
	meta, err := validateMetadata(req)
	if err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем слот вместе с создателем
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("ReserveSlot: slot id=%s not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	if !slot.IsAvailable() {
		uc.logger.Warn("ReserveSlot: slot id=%s is %s", slot.ID, slot.Status)
		return nil, ErrSlotUnavailable
	}

	// 4. Сумма берется из цены слота на момент чтения
	lamports, err := lamportsOf(slot)
	if err != nil {
		uc.logger.Warn("ReserveSlot: slot id=%s: %v", slot.ID, err)
		return nil, err
	}

	if req.ExpectedAmount != nil && !req.ExpectedAmount.Equal(slot.Price) {
		uc.logger.Warn("ReserveSlot: slot id=%s expected amount %s, price is %s",
			slot.ID, req.ExpectedAmount.String(), slot.Price.String())
		return nil, fmt.Errorf("%w: expected amount does not match slot price", ErrInvalidPrice)
	}

	// 5. Выпускаем токен доступа
	token, err := uc.tokens.NewToken()
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to issue access token: %v", err)
		return nil, fmt.Errorf("%w: failed to issue token: %v", ErrInternal, err)
	}

	booking := &domain.Booking{
		SlotID:      slot.ID,
		CreatorID:   slot.CreatorID,
		PayerWallet: payer,
		AmountSol:   slot.Price,
		Name:        meta.name,
		Email:       meta.email,
		CallFor:     meta.callFor,
		AccessToken: token,
	}

	var result *domain.Booking

	// 6. Условный UPDATE слота и вставка бронирования в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.slotRepo.MarkBooked(txCtx, slot.ID, slot.Price); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: failed to mark slot booked: %v", ErrInternal, err)
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			uc.logger.Warn("ReserveSlot: slot id=%s lost the race", slot.ID)
			return nil, ErrSlotUnavailable
		}
		uc.logger.Error("ReserveSlot: transaction failed for slot id=%s: %v", slot.ID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("ReserveSlot: slot id=%s booked, booking id=%s, lamports=%d", slot.ID, result.ID, lamports)

	return &Response{
		Booking:  result,
		Slot:     slot,
		Lamports: lamports,
	}, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeBooked
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrSlotNotFound):
		return outcomeUnavailable
	case errors.Is(err, ErrInternal):
		return outcomeError
	default:
		return outcomeRejected
	}
}
