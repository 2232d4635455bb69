package action_icon

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/imagefetch"
)

const (
	defaultRemoteType   = "image/jpeg"
	defaultFallbackType = "image/x-icon"
	msgIconNotFound     = "Icon not found"
)

type Handler struct {
	slots        SlotReader
	images       ImageFetcher
	fallbackIcon string
	logger       Logger
}

func NewHandler(slots SlotReader, images ImageFetcher, fallbackIcon string, logger Logger) *Handler {
	return &Handler{
		slots:        slots,
		images:       images,
		fallbackIcon: fallbackIcon,
		logger:       logger,
	}
}

// Handle GET /api/action/book/icon?slotId=
// Отдает изображение создателя слота, при любой ошибке fallback иконку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	setHeaders(w)

	slotID := strings.TrimSpace(r.URL.Query().Get("slotId"))

	img, err := h.creatorImage(r.Context(), slotID)
	if err != nil {
		h.logger.Warn("GET /action/book/icon - Creator image unavailable: slot_id=%s, error=%v", slotID, err)

		img, err = h.images.Remote(r.Context(), h.fallbackIcon, defaultFallbackType)
		if err != nil {
			h.logger.Error("GET /action/book/icon - Fallback icon unavailable: %v", err)
			http.Error(w, msgIconNotFound, http.StatusNotFound)
			return
		}
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

// HandlePreflight OPTIONS /api/action/book/icon
func (h *Handler) HandlePreflight(w http.ResponseWriter, _ *http.Request) {
	setHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) creatorImage(ctx context.Context, slotID string) (*imagefetch.Image, error) {
	if slotID == "" {
		return nil, imagefetch.ErrNotFound
	}

	slot, err := h.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Creator == nil || !slot.Creator.HasProfileImage() {
		return nil, imagefetch.ErrNotFound
	}

	return h.images.Get(ctx, *slot.Creator.ProfileImageURL, defaultRemoteType)
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Max-Age", "86400")
	w.Header().Set("Cache-Control", "public, max-age=300")
}
