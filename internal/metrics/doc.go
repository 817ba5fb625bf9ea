// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

/*
Package metrics provides Prometheus metrics collection and export for observability.

The package instruments:
  - HTTP request latency and throughput
  - Document store operation performance
  - Authentication outcomes
  - Chat relay connections, groups, and message throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8700/metrics

All collectors are registered with the default registry via promauto.
*/
package metrics
