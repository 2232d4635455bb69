package reserve_slot

import "errors"

var (
	// ErrInvalidPayer возвращается, когда адрес плательщика не является публичным ключом Solana
	ErrInvalidPayer = errors.New("reserve_slot: invalid payer account")

	// ErrInvalidInput возвращается при некорректных данных формы (name, email, callFor)
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("reserve_slot: slot not found")

	// ErrSlotUnavailable возвращается, когда слот уже забронирован или проиграна гонка
	ErrSlotUnavailable = errors.New("reserve_slot: slot is not available")

	// ErrInvalidPrice возвращается при нулевой сумме в лампортах или несовпадении ожидаемой суммы
	ErrInvalidPrice = errors.New("reserve_slot: invalid slot price")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
