package id

import (
	"encoding/hex"
	"regexp"
	"testing"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if len(got) != 32 {
		t.Fatalf("length = %d, want 32 (got=%q)", len(got), got)
	}
	// lowercase hex only, matching the hex32 request validator
	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	// decodes back to exactly 16 random bytes
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	// Pool, policy and position ids are all minted from this one
	// generator, so collisions would corrupt unique indexes.
	const n = 500
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := NewID32()
		if _, ok := seen[v]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, v)
		}
		seen[v] = struct{}{}
	}
}
