package ledger

import "errors"

var (
	// ErrUnavailable возвращается, когда нода не ответила или ответила ошибкой
	ErrUnavailable = errors.New("ledger client: rpc unavailable")

	// ErrInvalidResponse возвращается при пустом или некорректном ответе ноды
	ErrInvalidResponse = errors.New("ledger client: invalid response")
)
