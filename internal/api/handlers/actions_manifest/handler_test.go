package actions_manifest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
)

func TestHandler_Handle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler("devnet").Handle(rec, httptest.NewRequest(http.MethodGet, "/actions.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rules":[{"pathPattern":"/book/*","apiPath":"/api/action/book"}]}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, actions.BlockchainID("devnet"), rec.Header().Get(actions.HeaderBlockchainIDs))
}

func TestHandler_HandlePreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler("mainnet").HandlePreflight(rec, httptest.NewRequest(http.MethodOptions, "/actions.json", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, actions.Version, rec.Header().Get(actions.HeaderActionVersion))
	assert.Equal(t, actions.BlockchainID("mainnet"), rec.Header().Get(actions.HeaderBlockchainIDs))
}
