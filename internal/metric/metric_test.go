package metric

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	ObserveCommand("detect_encoding", nil, time.Millisecond)
	assert.Zero(t, testutil.CollectAndCount(CommandDuration),
		"must not record before RegisterMetrics")

	RegisterMetrics()
	RegisterMetrics()
	require.True(t, Enabled())

	ObserveCommand("detect_encoding", nil, time.Millisecond)
	ObserveCommand("convert_to_utf8", errors.New("Decoding had errors"),
		time.Millisecond)
	assert.Equal(t, 2, testutil.CollectAndCount(CommandDuration))

	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sub2utf_command_duration_seconds")
}
