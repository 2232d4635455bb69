package imagefetch

import "errors"

var (
	// ErrNotFound возвращается, когда изображение не найдено
	ErrNotFound = errors.New("imagefetch: image not found")

	// ErrInvalidPath возвращается для путей, выходящих за каталог загрузок
	ErrInvalidPath = errors.New("imagefetch: invalid local path")

	// ErrTooLarge возвращается, когда изображение превышает лимит размера
	ErrTooLarge = errors.New("imagefetch: image too large")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("imagefetch: internal error")
)
