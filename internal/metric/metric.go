// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package metric // import "sub2utf.app/v2/internal/metric"

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus Metrics.
var (
	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sub2utf",
			Name:      "command_duration_seconds",
			Help:      "Processing time of commands invoked by front-ends",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 15),
		},
		[]string{"command", "status"},
	)
)

var enabled atomic.Bool

// RegisterMetrics registers collectors with the default registry and
// enables recording.
func RegisterMetrics() {
	if enabled.Swap(true) {
		return
	}
	prometheus.MustRegister(CommandDuration)
}

func Enabled() bool { return enabled.Load() }

func ObserveCommand(name string, err error, elapsed time.Duration) {
	if !Enabled() {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	CommandDuration.WithLabelValues(name, status).Observe(elapsed.Seconds())
}

func Handler() http.Handler { return promhttp.Handler() }
