// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "sub2utf.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/logging"
)

var healthCmd = cobra.Command{
	Use:   "healthcheck auto|endpoint",
	Short: `Perform a health check on the given endpoint`,

	Long: `Perform a health check on the given endpoint.

The value "auto" checks /healthz of LISTEN_ADDR.
`,

	Example: `
$ sub2utf healthcheck http://127.0.0.1:8420/healthz
`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return doHealthCheck(cmd.Context(), args[0], config.Opts.ListenAddr())
	},
}

func doHealthCheck(ctx context.Context, endpoint, listenAddr string) error {
	client := &http.Client{Timeout: 3 * time.Second}
	if endpoint == "auto" {
		endpoint = "http://" + listenAddr + "/healthz"
		if strings.HasPrefix(listenAddr, "/") {
			endpoint = "http://unix/healthz"
			client.Transport = &http.Transport{
				DialContext: func(ctx context.Context, _, _ string,
				) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", listenAddr)
				},
			}
		}
	}

	log := logging.FromContext(ctx).With(slog.String("endpoint", endpoint))
	log.Debug("Executing health check request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("health check failure: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failure: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status code %d",
			resp.StatusCode)
	}
	log.Debug("Health check is passing")
	return nil
}
