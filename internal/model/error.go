// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "sub2utf.app/v2/internal/model"

import "errors"

// ErrorKind tags the failure of a command.
type ErrorKind int

const (
	UnknownEncoding ErrorKind = iota + 1
	DecodingError
	FileSystemError
)

// Sentinels for errors.Is. They match any [Error] of the same kind.
var (
	ErrUnknownEncoding = &Error{Kind: UnknownEncoding}
	ErrDecoding        = &Error{Kind: DecodingError}
	ErrFileSystem      = &Error{Kind: FileSystemError}
)

// Error is the failure returned by a command. Callers may branch on Kind,
// while Error() renders the exact text shown to the front-end.
type Error struct {
	Kind  ErrorKind
	Label string
	Err   error
}

func NewUnknownEncodingError(label string) *Error {
	return &Error{Kind: UnknownEncoding, Label: label}
}

func NewDecodingError(cause error) *Error {
	return &Error{Kind: DecodingError, Err: cause}
}

func NewFileSystemError(cause error) *Error {
	return &Error{Kind: FileSystemError, Err: cause}
}

func (self *Error) Error() string {
	switch self.Kind {
	case UnknownEncoding:
		return "Unknown encoding: " + self.Label
	case DecodingError:
		return "Decoding had errors"
	case FileSystemError:
		if self.Err != nil {
			return self.Err.Error()
		}
		return "file system error"
	}
	return "unknown error"
}

func (self *Error) Unwrap() error { return self.Err }

func (self *Error) Is(target error) bool {
	var e *Error
	if !errors.As(target, &e) {
		return false
	}
	return e.Kind == self.Kind && (e.Label == "" || e.Label == self.Label)
}
