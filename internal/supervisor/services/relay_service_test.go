// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type mockContextHub struct {
	runCount atomic.Int32
	err      error
}

func (m *mockContextHub) RunWithContext(ctx context.Context) error {
	m.runCount.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRelayHubService_Interface(t *testing.T) {
	var _ suture.Service = (*RelayHubService)(nil)
}

func TestRelayHubService_String(t *testing.T) {
	svc := NewRelayHubService(&mockContextHub{})
	if svc.String() != "relay-hub" {
		t.Errorf("expected 'relay-hub', got %q", svc.String())
	}
}

func TestRelayHubService_Serve(t *testing.T) {
	t.Run("delegates to hub and returns on cancel", func(t *testing.T) {
		hub := &mockContextHub{}
		svc := NewRelayHubService(hub)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after cancel")
		}

		if hub.runCount.Load() != 1 {
			t.Errorf("expected 1 RunWithContext call, got %d", hub.runCount.Load())
		}
	})

	t.Run("propagates hub errors", func(t *testing.T) {
		hubErr := errors.New("hub crashed")
		svc := NewRelayHubService(&mockContextHub{err: hubErr})

		if err := svc.Serve(context.Background()); !errors.Is(err, hubErr) {
			t.Errorf("expected hub error, got %v", err)
		}
	})
}
