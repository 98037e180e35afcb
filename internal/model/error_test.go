// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "sub2utf.app/v2/internal/model"

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unknown encoding",
			err:  NewUnknownEncodingError("not-a-real-encoding"),
			want: "Unknown encoding: not-a-real-encoding",
		},
		{
			name: "decoding",
			err:  NewDecodingError(nil),
			want: "Decoding had errors",
		},
		{
			name: "file system",
			err:  NewFileSystemError(fs.ErrPermission),
			want: fs.ErrPermission.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewUnknownEncodingError("foo"))
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	assert.ErrorIs(t, err, NewUnknownEncodingError("foo"))
	assert.NotErrorIs(t, err, NewUnknownEncodingError("bar"))
	assert.NotErrorIs(t, err, ErrDecoding)

	fsErr := NewFileSystemError(fs.ErrNotExist)
	assert.ErrorIs(t, fsErr, ErrFileSystem)
	assert.ErrorIs(t, fsErr, fs.ErrNotExist)

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, UnknownEncoding, e.Kind)
}
