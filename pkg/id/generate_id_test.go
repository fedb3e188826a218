package id

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if len(got) != 32 {
		t.Fatalf("length = %d, want 32 (got=%q)", len(got), got)
	}
	if !Valid(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
	// version nibble of a v4 uuid
	if got[12] != '4' {
		t.Fatalf("version nibble = %c, want 4", got[12])
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID32()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		strings.Repeat("a", 32):  true,
		strings.Repeat("A", 32):  false,
		strings.Repeat("a", 31):  false,
		"not-an-id":              false,
		uuid.NewString():         false,
		strings.Repeat("0f", 16): true,
	}
	for in, want := range cases {
		if got := Valid(in); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	u := uuid.New()
	want := strings.ReplaceAll(u.String(), "-", "")
	if got := Normalize(strings.ToUpper(u.String())); got != want {
		t.Fatalf("Normalize dashed = %q, want %q", got, want)
	}
	if got := Normalize(want); got != want {
		t.Fatalf("Normalize undashed = %q, want %q", got, want)
	}
	if got := Normalize("nope"); got != "" {
		t.Fatalf("Normalize invalid = %q, want empty", got)
	}
}
