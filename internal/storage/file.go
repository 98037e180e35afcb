// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package storage reads and writes the files handled by the application.
package storage // import "sub2utf.app/v2/internal/storage"

import (
	"os"

	"sub2utf.app/v2/internal/model"
)

// fileMode is the mode of newly created files, before umask.
const fileMode = 0o666

// SaveFile writes content to path, truncating an existing file or creating a
// new one. Parent directories aren't created. The write isn't atomic: a
// failure may leave a partially written file behind.
func SaveFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
		return model.NewFileSystemError(err)
	}
	return nil
}

// ReadFile returns the whole content of path.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewFileSystemError(err)
	}
	return b, nil
}
