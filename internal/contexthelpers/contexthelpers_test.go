package contexthelpers_test

import (
	"github.com/myrjola/foxtrail/internal/contexthelpers"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/detective", nil)
	require.Empty(t, contexthelpers.CurrentPath(r.Context()))
	require.Empty(t, contexthelpers.GameID(r.Context()))

	r = contexthelpers.SetCurrentPath(r, "/detective")
	r = contexthelpers.SetCSRFToken(r, "token")
	r = contexthelpers.SetCSPNonce(r, "nonce")
	r = contexthelpers.SetGameID(r, "01HX")

	ctx := r.Context()
	require.Equal(t, "/detective", contexthelpers.CurrentPath(ctx))
	require.Equal(t, "token", contexthelpers.CSRFToken(ctx))
	require.Equal(t, "nonce", contexthelpers.CSPNonce(ctx))
	require.Equal(t, "01HX", contexthelpers.GameID(ctx))
}
