// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package encoding detects character encodings of byte buffers and converts
// them to UTF-8 text.
//
// Labels are resolved following the WHATWG Encoding Standard, the same
// table web browsers use, so every name a web front-end may send is
// understood. See https://encoding.spec.whatwg.org/#names-and-labels
package encoding // import "sub2utf.app/v2/internal/encoding"

import (
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Lookup returns the encoding for label and its canonical name. Matching is
// case-insensitive and ignores surrounding whitespace. It returns nil if
// label is unknown.
//
// The "replacement" encoding, which WHATWG assigns to ISO-2022-KR and
// friends, is returned too: it decodes any non-empty input to a single
// U+FFFD, so the strict decoder always rejects such input.
func Lookup(label string) (encoding.Encoding, string) {
	e, _ := charset.Lookup(label)
	if e == nil {
		return nil, ""
	}
	return e, canonicalName(e)
}

// whatwgNames maps lower-case WHATWG names, as htmlindex reports them, to
// their spelling in the Encoding Standard.
var whatwgNames = map[string]string{
	"utf-8":          "UTF-8",
	"ibm866":         "IBM866",
	"iso-8859-2":     "ISO-8859-2",
	"iso-8859-3":     "ISO-8859-3",
	"iso-8859-4":     "ISO-8859-4",
	"iso-8859-5":     "ISO-8859-5",
	"iso-8859-6":     "ISO-8859-6",
	"iso-8859-7":     "ISO-8859-7",
	"iso-8859-8":     "ISO-8859-8",
	"iso-8859-8-i":   "ISO-8859-8-I",
	"iso-8859-10":    "ISO-8859-10",
	"iso-8859-13":    "ISO-8859-13",
	"iso-8859-14":    "ISO-8859-14",
	"iso-8859-15":    "ISO-8859-15",
	"iso-8859-16":    "ISO-8859-16",
	"koi8-r":         "KOI8-R",
	"koi8-u":         "KOI8-U",
	"gbk":            "GBK",
	"big5":           "Big5",
	"euc-jp":         "EUC-JP",
	"iso-2022-jp":    "ISO-2022-JP",
	"shift_jis":      "Shift_JIS",
	"euc-kr":         "EUC-KR",
	"utf-16be":       "UTF-16BE",
	"utf-16le":       "UTF-16LE",
	"x-user-defined": "x-user-defined",
}

// canonicalName returns the name the Encoding Standard gives e ("UTF-8",
// "Shift_JIS", "gb18030", "windows-1251"). Names not listed in whatwgNames
// are already spelled in lower case there.
func canonicalName(e encoding.Encoding) string {
	name, err := htmlindex.Name(e)
	if err != nil {
		return ""
	}
	if s, ok := whatwgNames[name]; ok {
		return s
	}
	return name
}

// IsUTF8 reports whether label names UTF-8.
func IsUTF8(label string) bool {
	_, name := Lookup(label)
	return strings.EqualFold(name, "UTF-8")
}
