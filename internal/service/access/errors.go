package access

import "errors"

var (
	// ErrAccessDenied возвращается и для неизвестного бронирования, и для неверного токена
	ErrAccessDenied = errors.New("access: invalid or expired link")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("access: internal error")
)
