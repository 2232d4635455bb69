package descriptor

import "time"

// Request контекст GET запроса к action
type Request struct {
	SlotID   string
	BaseURL  string // внешний адрес сервиса без завершающего "/"
	Path     string // путь входящего запроса
	RawQuery string // исходная query строка
}

// Config параметры отображения
type Config struct {
	FallbackIcon string
	Location     *time.Location // часовой пояс для времени слота
	IconPath     string         // путь прокси иконок
}
