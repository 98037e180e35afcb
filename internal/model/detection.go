// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "sub2utf.app/v2/internal/model"

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Detection is the result of detect_encoding. It travels over the wire as a
// two element array: ["windows-1251", 1].
type Detection struct {
	Encoding   string
	Confidence float64
}

func (self Detection) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal([2]any{self.Encoding, self.Confidence})
	if err != nil {
		return nil, fmt.Errorf("model: marshal detection: %w", err)
	}
	return b, nil
}

func (self *Detection) UnmarshalJSON(b []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(b, &tuple); err != nil {
		return fmt.Errorf("model: unmarshal detection: %w", err)
	} else if len(tuple) != 2 {
		return errors.New("model: detection must be a [label, confidence] pair")
	}

	if err := json.Unmarshal(tuple[0], &self.Encoding); err != nil {
		return fmt.Errorf("model: unmarshal detection label: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &self.Confidence); err != nil {
		return fmt.Errorf("model: unmarshal detection confidence: %w", err)
	}
	return nil
}
