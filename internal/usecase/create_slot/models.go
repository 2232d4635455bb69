package create_slot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на создание слота
type Request struct {
	CreatorID string
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal // в SOL
	MeetLink  *string
}

// Response созданный слот
type Response struct {
	ID        string
	CreatorID string
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
	Status    string
	MeetLink  *string
	CreatedAt time.Time
}
