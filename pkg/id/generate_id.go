package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID rendered as 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s has the public identifier format.
func Valid(s string) bool { return reHex32.MatchString(s) }

// Normalize lower-cases a dashed or undashed UUID into the 32-char form.
// It returns "" when s is not a UUID.
func Normalize(s string) string {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(u.String(), "-", "")
}
