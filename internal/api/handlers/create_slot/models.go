package create_slot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BlinkBooking/internal/usecase/create_slot"
)

// CreateSlotRequest тело POST /api/slot/create
// Цена принимается и числом, и строкой
type CreateSlotRequest struct {
	CreatorID string           `json:"creatorId"`
	StartTime *time.Time       `json:"startTime"`
	EndTime   *time.Time       `json:"endTime"`
	Price     *decimal.Decimal `json:"price"`
	MeetLink  *string          `json:"meetLink,omitempty"`
}

// SlotResponse созданный слот
type SlotResponse struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creatorId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Price     string    `json:"price"`
	Status    string    `json:"status"`
	MeetLink  *string   `json:"meetLink,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// missingField имя первого отсутствующего обязательного поля
func (r *CreateSlotRequest) missingField() string {
	switch {
	case r.CreatorID == "":
		return "creatorId"
	case r.StartTime == nil:
		return "startTime"
	case r.EndTime == nil:
		return "endTime"
	case r.Price == nil:
		return "price"
	}
	return ""
}

func (r *CreateSlotRequest) toUseCaseRequest() *create_slot.Request {
	return &create_slot.Request{
		CreatorID: r.CreatorID,
		StartTime: *r.StartTime,
		EndTime:   *r.EndTime,
		Price:     *r.Price,
		MeetLink:  r.MeetLink,
	}
}

func fromUseCaseResponse(resp *create_slot.Response) SlotResponse {
	return SlotResponse{
		ID:        resp.ID,
		CreatorID: resp.CreatorID,
		StartTime: resp.StartTime,
		EndTime:   resp.EndTime,
		Price:     resp.Price.String(),
		Status:    resp.Status,
		MeetLink:  resp.MeetLink,
		CreatedAt: resp.CreatedAt,
	}
}
