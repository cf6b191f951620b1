package net_test

import (
	"context"
	"testing"

	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
)

func TestContextValues(t *testing.T) {
	base := context.Background()

	t.Run("sets all values", func(t *testing.T) {
		ctx := pnet.WithView(pnet.WithToken(pnet.WithRequest(base, "req-123"), "tok-abc"), "view-1")

		if got := pnet.RequestID(ctx); got != "req-123" {
			t.Fatalf("RequestID got %q want %q", got, "req-123")
		}
		if got := pnet.Token(ctx); got != "tok-abc" {
			t.Fatalf("Token got %q want %q", got, "tok-abc")
		}
		if got := pnet.ViewID(ctx); got != "view-1" {
			t.Fatalf("ViewID got %q want %q", got, "view-1")
		}
	})

	t.Run("token only", func(t *testing.T) {
		ctx := pnet.WithToken(base, "t-only")

		if got := pnet.RequestID(ctx); got != "" {
			t.Fatalf("RequestID got %q want empty", got)
		}
		if got := pnet.Token(ctx); got != "t-only" {
			t.Fatalf("Token got %q want %q", got, "t-only")
		}
	})

	t.Run("empty values return same ctx", func(t *testing.T) {
		ctx := pnet.WithView(pnet.WithToken(pnet.WithRequest(base, ""), ""), "")

		if ctx != base {
			t.Fatalf("expected ctx to be unchanged when all values empty")
		}
		if pnet.RequestID(ctx) != "" || pnet.Token(ctx) != "" || pnet.ViewID(ctx) != "" {
			t.Fatalf("getters should be empty on a bare context")
		}
	})
}
