package request

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRemoteIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.168.0.1:4242", "192.168.0.1"},
		{"192.168.0.1", "192.168.0.1"},
		{"fe80::14c2:f039:edc7:edc7", "fe80::14c2:f039:edc7:edc7"},
		{"fe80::14c2:f039:edc7:edc7%eth0", "fe80::14c2:f039:edc7:edc7"},
		{"[fe80::14c2:f039:edc7:edc7%eth0]:4242", "fe80::14c2:f039:edc7:edc7"},
		{"@", "@"},
		{"", "@"},
	}

	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			r := http.Request{RemoteAddr: tt.remoteAddr}
			assert.Equal(t, tt.want, FindRemoteIP(&r))
		})
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:1234"
	assert.Equal(t, "127.0.0.1", ClientIP(r))

	r = r.WithContext(WithClientIP(r.Context(), "10.0.0.1"))
	assert.Equal(t, "10.0.0.1", ClientIP(r))
}

func TestRouteStringParam(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("/invoke/{command}", func(w http.ResponseWriter, r *http.Request) {
		got = RouteStringParam(r, "command")
	})
	mux.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/invoke/save_file", nil))
	assert.Equal(t, "save_file", got)
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"data":[]}`))
	b, err := ReadBody(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(b))

	r = httptest.NewRequest(http.MethodPost, "/",
		bytes.NewReader(make([]byte, MaxBodySize+1)))
	_, err = ReadBody(httptest.NewRecorder(), r)
	require.Error(t, err)
}
