// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordStoreOperation tests document store metric recording
func TestRecordStoreOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		collection string
		duration   time.Duration
		err        error
	}{
		{
			name:       "successful get",
			operation:  "get",
			collection: "user",
			duration:   2 * time.Millisecond,
			err:        nil,
		},
		{
			name:       "successful create",
			operation:  "create",
			collection: "book",
			duration:   5 * time.Millisecond,
			err:        nil,
		},
		{
			name:       "failed update with short error",
			operation:  "update",
			collection: "club",
			duration:   10 * time.Millisecond,
			err:        errors.New("document not found"),
		},
		{
			name:       "failed create with long error - should truncate to 50 chars",
			operation:  "create",
			collection: "author",
			duration:   3 * time.Millisecond,
			err:        errors.New(strings.Repeat("x", 120)),
		},
		{
			name:       "slow list",
			operation:  "list",
			collection: "event",
			duration:   2 * time.Second,
			err:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should not panic regardless of input
			RecordStoreOperation(tt.operation, tt.collection, tt.duration, tt.err)
		})
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.CollectAndCount(APIRequestsTotal)

	RecordAPIRequest("GET", "/book", "200", 25*time.Millisecond)
	RecordAPIRequest("POST", "/auth/signin", "404", 150*time.Millisecond)
	RecordAPIRequest("PUT", "/user/abc", "403", 5*time.Millisecond)

	after := testutil.CollectAndCount(APIRequestsTotal)
	if after <= before {
		t.Errorf("expected new API request series, before=%d after=%d", before, after)
	}
}

// TestTrackActiveRequest verifies the active request gauge moves both ways
func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+2 {
		t.Errorf("expected gauge %v, got %v", base+2, got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("expected gauge restored to %v, got %v", base, got)
	}
}

// TestRecordAuthAttempt verifies success and failure label mapping
func TestRecordAuthAttempt(t *testing.T) {
	RecordAuthAttempt("signin", true)
	RecordAuthAttempt("signin", false)
	RecordAuthAttempt("gate", false)

	success := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("signin", "success"))
	failure := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("signin", "failure"))
	if success < 1 {
		t.Errorf("expected signin success counter >= 1, got %v", success)
	}
	if failure < 1 {
		t.Errorf("expected signin failure counter >= 1, got %v", failure)
	}
}

// TestUpdateRelayGauges verifies both relay gauges are set
func TestUpdateRelayGauges(t *testing.T) {
	UpdateRelayGauges(7, 3)

	if got := testutil.ToFloat64(RelayConnections); got != 7 {
		t.Errorf("expected 7 relay connections, got %v", got)
	}
	if got := testutil.ToFloat64(RelayGroups); got != 3 {
		t.Errorf("expected 3 relay groups, got %v", got)
	}
}

// TestMetricsConcurrentAccess ensures recording is safe under concurrency
func TestMetricsConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordStoreOperation("get", "user", time.Millisecond, nil)
				RecordAPIRequest("GET", "/book", "200", time.Millisecond)
				RecordAuthAttempt("gate", j%2 == 0)
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}
	wg.Wait()
}
