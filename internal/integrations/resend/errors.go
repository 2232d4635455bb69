package resend

import "errors"

var (
	// ErrNotConfigured возвращается, когда не задан API ключ
	ErrNotConfigured = errors.New("resend client: not configured")

	// ErrRecipientSuppressed возвращается в тестовом режиме для адресов вне allow-list
	ErrRecipientSuppressed = errors.New("resend client: recipient suppressed in test mode")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("resend client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("resend client: invalid response")
)
