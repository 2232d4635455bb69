package book_action

import "net/http"

// RequestContext явный контекст запроса к action
type RequestContext struct {
	SlotID   string
	BaseURL  string
	Path     string
	RawQuery string
	Amount   string // необязательная ожидаемая сумма в SOL
}

// ProtocolError ошибка, которая отдается клиенту как {"message": ...}
type ProtocolError struct {
	Status  int
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

func badRequest(message string) *ProtocolError {
	return &ProtocolError{Status: http.StatusBadRequest, Message: message}
}

func serverError(message string) *ProtocolError {
	return &ProtocolError{Status: http.StatusInternalServerError, Message: message}
}

// postBody тело POST запроса; account декодируется как any, чтобы отличить
// отсутствующий или нестроковый account от невалидного JSON
type postBody struct {
	Account interface{}    `json:"account"`
	Data    map[string]any `json:"data"`
}
