package auth

import (
	"testing"
	"time"
)

func TestSessionExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		issuedAt time.Time
		now      time.Time
		want     bool
	}{
		{"fresh login", base, base.Add(time.Minute), false},
		{"just inside budget", base, base.Add(8*time.Hour - time.Second), false},
		{"exactly at budget", base, base.Add(8 * time.Hour), true},
		{"stale by a day", base, base.Add(32 * time.Hour), true},
	}

	for _, tc := range cases {
		if got := SessionExpired(tc.issuedAt, tc.now); got != tc.want {
			t.Errorf("%s: SessionExpired = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHashTokenStable(t *testing.T) {
	a := hashToken("abc")
	b := hashToken("abc")
	if a != b {
		t.Fatalf("hashToken not deterministic: %s vs %s", a, b)
	}
	if a == hashToken("abd") {
		t.Fatal("distinct tokens hashed to same value")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
