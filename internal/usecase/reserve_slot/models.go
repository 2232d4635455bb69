package reserve_slot

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
)

// Request модель запроса на бронирование слота
type Request struct {
	SlotID string // ID слота
	Payer  string // Кошелек плательщика (base58)

	// Ожидаемая сумма в SOL; если задана, должна совпасть с ценой слота
	ExpectedAmount *decimal.Decimal

	// Данные формы, все опциональны
	Name    string
	Email   string
	CallFor string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking
	Slot     *domain.Slot // вместе с создателем, статус на момент чтения
	Lamports uint64       // сумма перевода
}

// metadata нормализованные данные формы
type metadata struct {
	name    *string
	email   *string
	callFor *string
}
