// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version // import "sub2utf.app/v2/internal/version"

import "runtime"

const devVersion = "Development Version"

// Variables populated at build time when using LD_FLAGS.
var (
	Commit    = "Unknown (built outside VCS)"
	BuildDate = "Unknown (built outside VCS)"
	Version   = devVersion
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Arch      string `json:"arch"`
	OS        string `json:"os"`
}

func New() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Arch:      runtime.GOARCH,
		OS:        runtime.GOOS,
	}
}

func (self Info) IsDevelopment() bool { return self.Version == devVersion }
