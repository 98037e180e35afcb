// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command // import "sub2utf.app/v2/internal/command"

import (
	"context"

	"sub2utf.app/v2/internal/encoding"
	"sub2utf.app/v2/internal/model"
	"sub2utf.app/v2/internal/storage"
)

// Names of the commands. They are part of the contract with front-ends.
const (
	DetectEncoding = "detect_encoding"
	ConvertToUTF8  = "convert_to_utf8"
	SaveFile       = "save_file"
)

type DetectEncodingArgs struct {
	Data model.Bytes `json:"data"`
}

type ConvertToUTF8Args struct {
	Data     model.Bytes `json:"data"`
	Encoding string      `json:"encoding"`
}

type SaveFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func detectEncoding(ctx context.Context, args DetectEncodingArgs,
) (model.Detection, error) {
	return encoding.Detect(ctx, args.Data), nil
}

func convertToUTF8(_ context.Context, args ConvertToUTF8Args,
) (string, error) {
	return encoding.ConvertToUTF8(args.Data, args.Encoding)
}

func saveFile(_ context.Context, args SaveFileArgs) (any, error) {
	if err := storage.SaveFile(args.Path, args.Content); err != nil {
		return nil, err
	}
	return nil, nil
}

// RegisterAll registers detect_encoding, convert_to_utf8 and save_file.
func RegisterAll(r *Registry) error {
	commands := []struct {
		Name    string
		Handler Handler
	}{
		{DetectEncoding, Typed(detectEncoding)},
		{ConvertToUTF8, Typed(convertToUTF8)},
		{SaveFile, Typed(saveFile)},
	}

	for _, c := range commands {
		if err := r.Register(c.Name, c.Handler); err != nil {
			return err
		}
	}
	return nil
}
