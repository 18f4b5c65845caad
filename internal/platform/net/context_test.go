package net_test

import (
	"context"
	"testing"

	pnet "lineview/internal/platform/net"
)

func TestRequestIDRoundtrip(t *testing.T) {
	ctx := pnet.WithRequest(context.Background(), "rid-42")
	if got := pnet.RequestID(ctx); got != "rid-42" {
		t.Fatalf("RequestID: %q", got)
	}
	if got := pnet.RequestID(context.Background()); got != "" {
		t.Fatalf("empty context should have no request id, got %q", got)
	}
}
