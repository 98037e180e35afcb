package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetection_JSON(t *testing.T) {
	b, err := json.Marshal(Detection{Encoding: "UTF-8", Confidence: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `["UTF-8", 1]`, string(b))

	var d Detection
	require.NoError(t, json.Unmarshal([]byte(`["windows-1251", 1.0]`), &d))
	assert.Equal(t, Detection{Encoding: "windows-1251", Confidence: 1}, d)

	require.Error(t, json.Unmarshal([]byte(`["UTF-8"]`), &d))
	require.Error(t, json.Unmarshal([]byte(`{}`), &d))
}

func TestBytes_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    Bytes
		wantErr bool
	}{
		{name: "array", json: `[255, 254, 65, 0]`, want: Bytes{0xff, 0xfe, 0x41, 0}},
		{name: "empty array", json: `[]`, want: Bytes{}},
		{name: "base64", json: `"//5BAA=="`, want: Bytes{0xff, 0xfe, 0x41, 0}},
		{name: "null", json: `null`},
		{name: "out of range", json: `[256]`, wantErr: true},
		{name: "object", json: `{"a": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Bytes
			err := json.Unmarshal([]byte(tt.json), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
