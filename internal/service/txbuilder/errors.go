package txbuilder

import "errors"

var (
	// ErrCheckpointUnavailable возвращается, когда не удалось получить blockhash
	ErrCheckpointUnavailable = errors.New("txbuilder: failed to fetch a recent blockhash")

	// ErrInvalidPayer возвращается при некорректном кошельке плательщика
	ErrInvalidPayer = errors.New("txbuilder: invalid payer")

	// ErrInvalidRecipient возвращается при некорректном кошельке создателя
	ErrInvalidRecipient = errors.New("txbuilder: invalid recipient wallet")

	// ErrTransactionTooLarge возвращается, когда транзакция не помещается в пакет
	ErrTransactionTooLarge = errors.New("txbuilder: transaction exceeds packet size")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("txbuilder: internal error")
)
