// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package encoding // import "sub2utf.app/v2/internal/encoding"

import (
	"context"
	"log/slog"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"

	"sub2utf.app/v2/internal/logging"
	"sub2utf.app/v2/internal/model"
)

const (
	// Confidence is reported for every detection. The detector's own score
	// isn't exposed to callers, the front-end relies on a constant here.
	Confidence = 1.0

	// FallbackEncoding is returned when the detector has no usable guess.
	FallbackEncoding = "windows-1252"
)

// chardet names which aren't WHATWG labels.
var detectorAliases = map[string]string{
	"GB-18030": "gb18030",
}

// Detect guesses the encoding of data. The whole buffer is analysed at once.
// It never fails: without a usable guess it returns FallbackEncoding. The
// returned label always resolves with Lookup.
func Detect(ctx context.Context, data []byte) model.Detection {
	log := logging.FromContext(ctx).With(slog.Int("size", len(data)))

	name := FallbackEncoding
	if guess, ok := detectBest(log, data); ok {
		name = guess
	}

	log.Debug("encoding: detected", slog.String("encoding", name))
	return model.Detection{Encoding: name, Confidence: Confidence}
}

func detectBest(log *slog.Logger, data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		log.Debug("encoding: detector has no guess", slog.Any("error", err))
		return "", false
	}
	log = log.With(slog.String("charset", result.Charset),
		slog.String("language", result.Language),
		slog.Int("confidence", result.Confidence))

	label := result.Charset
	if alias, ok := detectorAliases[label]; ok {
		label = alias
	}

	e, name := Lookup(label)
	if e == nil || e == encoding.Replacement {
		log.Debug("encoding: detector guess isn't supported")
		return "", false
	}
	log.Debug("encoding: detector guess")
	return name, true
}
