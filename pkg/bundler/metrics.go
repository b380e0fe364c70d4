// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bundler

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stages reported in the error metric.
const (
	stageValidate = "validate"
	stageResolve  = "resolve"
	stageRender   = "render"
	stageWrite    = "write"
	stageCopy     = "copy"
	stageChecksum = "checksum"
)

var (
	bundlesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appbundler_bundles_generated_total",
			Help: "Total number of bundle generation attempts by status",
		},
		[]string{"status"},
	)

	bundleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "appbundler_bundle_duration_seconds",
			Help:    "Duration of successful bundle generation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	bundleSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "appbundler_bundle_size_bytes",
			Help:    "Total size of generated bundles in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	resourcesCopied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appbundler_resources_copied_total",
			Help: "Total number of resource files copied into bundles",
		},
	)

	bundleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appbundler_bundle_errors_total",
			Help: "Total number of bundle generation errors by stage",
		},
		[]string{"stage"},
	)
)

func recordBundleGenerated(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	bundlesGenerated.WithLabelValues(status).Inc()
}

func recordBundleDuration(seconds float64) {
	bundleDuration.Observe(seconds)
}

func recordBundleSize(bytes int64) {
	bundleSize.Observe(float64(bytes))
}

func recordResourcesCopied(n int) {
	resourcesCopied.Add(float64(n))
}

func recordBundleError(stage string) {
	bundleErrors.WithLabelValues(stage).Inc()
}

// WriteMetrics writes every registered metric to path in the Prometheus
// text exposition format, for pickup by a node exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
