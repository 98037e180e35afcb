// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "sub2utf.app/v2/internal/model"

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Bytes is a raw byte buffer received from the front-end. Web views send
// Uint8Array contents as an array of numbers, Go clients send base64
// strings; both are accepted.
type Bytes []byte

func (self *Bytes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*self = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var raw []byte
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("model: unmarshal base64 bytes: %w", err)
		}
		*self = raw
		return nil
	}

	var numbers []uint8
	if err := json.Unmarshal(b, &numbers); err != nil {
		return fmt.Errorf("model: unmarshal bytes array: %w", err)
	}
	*self = numbers
	return nil
}
