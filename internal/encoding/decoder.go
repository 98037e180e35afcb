// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package encoding // import "sub2utf.app/v2/internal/encoding"

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"sub2utf.app/v2/internal/model"
)

var boms = []struct {
	mark []byte
	enc  encoding.Encoding
}{
	{[]byte{0xef, 0xbb, 0xbf}, unicode.UTF8},
	{[]byte{0xfe, 0xff}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{[]byte{0xff, 0xfe}, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
}

// ConvertToUTF8 decodes data from the encoding named by label.
//
// A UTF-8 or UTF-16 byte order mark at the start of data takes precedence
// over label and is removed. Decoding is strict: if any byte sequence is
// invalid in the encoding, the whole conversion fails and no text is
// returned.
func ConvertToUTF8(data []byte, label string) (string, error) {
	e, _ := Lookup(label)
	if e == nil {
		return "", model.NewUnknownEncodingError(label)
	} else if len(data) == 0 {
		return "", nil
	}

	e, data = sniffBOM(e, data)
	decoded, _, err := transform.Bytes(e.NewDecoder(), data)
	if err != nil {
		return "", model.NewDecodingError(err)
	}

	text := string(decoded)
	if strings.ContainsRune(text, utf8.RuneError) && !genuine(e, data, text) {
		return "", model.NewDecodingError(nil)
	}
	return text, nil
}

func sniffBOM(e encoding.Encoding, data []byte) (encoding.Encoding, []byte) {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.mark) {
			return b.enc, data[len(b.mark):]
		}
	}
	return e, data
}

// genuine reports whether every U+FFFD in text was encoded in data, rather
// than substituted by the decoder for invalid input. Substitutions never
// survive encoding text back.
func genuine(e encoding.Encoding, data []byte, text string) bool {
	switch canonicalName(e) {
	case "UTF-8":
		return utf8.Valid(data)
	case "replacement":
		return false
	}
	encoded, _, err := transform.Bytes(e.NewEncoder(), []byte(text))
	return err == nil && bytes.Equal(encoded, data)
}
