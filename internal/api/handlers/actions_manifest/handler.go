package actions_manifest

import (
	"net/http"

	"github.com/m04kA/SMC-BlinkBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
)

const (
	BookPathPattern = "/book/*"
	BookAPIPath     = "/api/action/book"
)

type Handler struct {
	headers  http.Header
	manifest actions.ActionsJSON
}

func NewHandler(network string) *Handler {
	return &Handler{
		headers: actions.Headers(network, actions.Version),
		manifest: actions.ActionsJSON{
			Rules: []actions.ActionRule{
				{PathPattern: BookPathPattern, APIPath: BookAPIPath},
			},
		},
	}
}

// Handle GET /actions.json
func (h *Handler) Handle(w http.ResponseWriter, _ *http.Request) {
	actions.Apply(w, h.headers)
	handlers.RespondJSON(w, http.StatusOK, h.manifest)
}

// HandlePreflight OPTIONS /actions.json
func (h *Handler) HandlePreflight(w http.ResponseWriter, _ *http.Request) {
	actions.Apply(w, h.headers)
	w.WriteHeader(http.StatusNoContent)
}
