// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package model // import "sub2utf.app/v2/internal/model"

// FileStatus is the state of a file in the conversion pipeline:
//
//	pending → detecting → ready/skipped/error → processing → done/error
type FileStatus string

const (
	StatusPending    FileStatus = "pending"
	StatusDetecting  FileStatus = "detecting"
	StatusReady      FileStatus = "ready"
	StatusSkipped    FileStatus = "skipped"
	StatusProcessing FileStatus = "processing"
	StatusDone       FileStatus = "done"
	StatusError      FileStatus = "error"
)

// Job represents a file sent to the conversion queue.
type Job struct {
	Path string `json:"path"`
	// Encoding overrides detection when not empty.
	Encoding string `json:"encoding,omitempty"`
	Language string `json:"language"`
}

// JobResult is the final state of a Job.
type JobResult struct {
	Job

	Status   FileStatus `json:"status"`
	Detected string     `json:"detected,omitempty"`
	Output   string     `json:"output,omitempty"`
	Err      error      `json:"-"`
}

func (self *JobResult) Error() string {
	if self.Err == nil {
		return ""
	}
	return self.Err.Error()
}
