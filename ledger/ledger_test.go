package ledger

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLedgerRoundTrip(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	ctx := context.Background()
	hash := ContentHash("some document body")

	seen, err := l.Seen(ctx, hash)
	if err != nil {
		t.Fatal(err)
	}
	if seen {
		t.Fatal("fresh ledger reports content as seen")
	}

	if err := l.Record(ctx, hash, "https://example.org/doc", "Doc", 3, 900); err != nil {
		t.Fatal(err)
	}

	seen, err = l.Seen(ctx, hash)
	if err != nil {
		t.Fatal(err)
	}
	if !seen {
		t.Fatal("recorded content not reported as seen")
	}

	// Same hash again must not error.
	if err := l.Record(ctx, hash, "other-item", "Doc", 3, 900); err != nil {
		t.Fatalf("duplicate record: %v", err)
	}
}

func TestContentHashStable(t *testing.T) {
	a := ContentHash("text")
	b := ContentHash("text")
	c := ContentHash("other")
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == c {
		t.Error("distinct content collided")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want hex sha-256", len(a))
	}
}
