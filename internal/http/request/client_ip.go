// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package request // import "sub2utf.app/v2/internal/http/request"

import (
	"net"
	"net/http"
	"strings"
)

// FindRemoteIP returns the remote client IP address. Requests received over
// a Unix socket have no address and are reported as "@".
func FindRemoteIP(r *http.Request) string {
	if r.RemoteAddr == "" || r.RemoteAddr == "@" {
		return "@"
	}

	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}
	return dropIPv6zone(remoteIP)
}

func dropIPv6zone(address string) string {
	before, _, _ := strings.Cut(address, "%")
	return before
}
