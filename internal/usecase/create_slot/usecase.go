package create_slot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

// UseCase use case создания слота
type UseCase struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Execute создает слот в статусе available
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.MeetLink != nil {
		req.MeetLink = ptr.NilIfEmpty(strings.TrimSpace(*req.MeetLink))
	}

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	exists, err := uc.slotRepo.CreatorExists(ctx, req.CreatorID)
	if err != nil {
		uc.logger.Error("CreateSlot: failed to check creator id=%s: %v", req.CreatorID, err)
		return nil, fmt.Errorf("%w: failed to check creator: %v", ErrInternal, err)
	}
	if !exists {
		uc.logger.Warn("CreateSlot: creator id=%s not found", req.CreatorID)
		return nil, ErrCreatorNotFound
	}

	created, err := uc.slotRepo.Create(ctx, &domain.Slot{
		CreatorID: req.CreatorID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Price:     req.Price,
		MeetLink:  req.MeetLink,
	})
	if err != nil {
		// Создатель мог быть удален между проверкой и вставкой
		if errors.Is(err, slotRepo.ErrCreatorNotFound) {
			return nil, ErrCreatorNotFound
		}
		uc.logger.Error("CreateSlot: failed to create slot: %v", err)
		return nil, fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateSlot: created slot id=%s for creator id=%s, price=%s",
		created.ID, created.CreatorID, created.Price.String())

	return &Response{
		ID:        created.ID,
		CreatorID: created.CreatorID,
		StartTime: created.StartTime,
		EndTime:   created.EndTime,
		Price:     created.Price,
		Status:    string(created.Status),
		MeetLink:  created.MeetLink,
		CreatedAt: created.CreatedAt,
	}, nil
}
