package util

import (
	"strings"
	"testing"
	"time"
)

func TestHashToken(t *testing.T) {
	t.Parallel()

	first := HashToken("refresh-token")
	if len(first) != 64 {
		t.Fatalf("HashToken length = %d, want 64", len(first))
	}
	if first != HashToken("refresh-token") {
		t.Fatal("HashToken must be deterministic")
	}
	if first == HashToken("refresh-token2") {
		t.Fatal("HashToken must differ for different tokens")
	}
}

func TestNewInvoiceNumber(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)
	seen := make(map[string]struct{})

	for range 100 {
		inv := NewInvoiceNumber(now)
		if !strings.HasPrefix(inv, "INV-20260315-") {
			t.Fatalf("unexpected invoice prefix: %s", inv)
		}
		if len(inv) != len("INV-20260315-")+32 {
			t.Fatalf("unexpected invoice length: %s", inv)
		}
		if _, dup := seen[inv]; dup {
			t.Fatalf("duplicate invoice number %s", inv)
		}
		seen[inv] = struct{}{}
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Bob@Example.COM "); got != "bob@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
