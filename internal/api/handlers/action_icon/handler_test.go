package action_icon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-BlinkBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/imagefetch"
	"github.com/m04kA/SMC-BlinkBooking/pkg/logger"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

type stubSlots struct {
	slot *domain.Slot
}

func (s stubSlots) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	if s.slot == nil || s.slot.ID != id {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s.slot, nil
}

func slotWithImage(ref string) *domain.Slot {
	return &domain.Slot{
		ID:      "s-1",
		Creator: &domain.Creator{Username: "alice", ProfileImageURL: ptr.Ptr(ref)},
	}
}

func newHandler(t *testing.T, slots SlotReader, uploads, fallback string) *Handler {
	t.Helper()
	fetcher := imagefetch.NewFetcher(2*time.Second, "IntervalBlink/1", uploads)
	return NewHandler(slots, fetcher, fallback, logger.NewWriter(io.Discard, "error"))
}

func get(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func assertIconHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}

func TestHandler_RemoteImage(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	h := newHandler(t, stubSlots{slot: slotWithImage(srv.URL + "/a.png")}, t.TempDir(), srv.URL+"/fallback")

	rec := get(h, "/api/action/book/icon?slotId=s-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assertIconHeaders(t, rec)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "IntervalBlink/1", userAgent)
}

func TestHandler_LocalImage(t *testing.T) {
	uploads := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "uploads", "a.webp"), []byte("webp"), 0o644))

	h := newHandler(t, stubSlots{slot: slotWithImage("/uploads/a.webp")}, uploads, "http://127.0.0.1:1/none")

	rec := get(h, "/api/action/book/icon?slotId=s-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "webp", rec.Body.String())
}

func TestHandler_FallbackIcon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/favicon.ico" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ico"))
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		slots  stubSlots
		target string
	}{
		{"missing slot id", stubSlots{}, "/api/action/book/icon"},
		{"unknown slot", stubSlots{}, "/api/action/book/icon?slotId=s-1"},
		{"traversal", stubSlots{slot: slotWithImage("../../etc/passwd")}, "/api/action/book/icon?slotId=s-1"},
		{"remote 404", stubSlots{slot: slotWithImage(srv.URL + "/missing.png")}, "/api/action/book/icon?slotId=s-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, tt.slots, t.TempDir(), srv.URL+"/favicon.ico")

			rec := get(h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assertIconHeaders(t, rec)
			assert.Equal(t, "ico", rec.Body.String())
		})
	}
}

func TestHandler_FallbackUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	h := newHandler(t, stubSlots{}, t.TempDir(), srv.URL+"/favicon.ico")

	rec := get(h, "/api/action/book/icon?slotId=s-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertIconHeaders(t, rec)
}

func TestHandler_Preflight(t *testing.T) {
	h := newHandler(t, stubSlots{}, t.TempDir(), "")

	rec := httptest.NewRecorder()
	h.HandlePreflight(rec, httptest.NewRequest(http.MethodOptions, "/api/action/book/icon", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assertIconHeaders(t, rec)
}
