package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ShortLen is the length of the display prefix returned by Short.
const ShortLen = 8

// New returns a fresh random debt ID.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed debt ID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Short returns the display prefix of an ID.
// "3f2b9c1e-..." -> "3f2b9c1e"
func Short(s string) string {
	if len(s) <= ShortLen {
		return s
	}
	return s[:ShortLen]
}

// Resolve finds the single ID in ids that equals or starts with prefix.
func Resolve(prefix string, ids []string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("empty debt ID")
	}

	var matches []string
	for _, candidate := range ids {
		if candidate == prefix {
			return candidate, nil
		}
		if strings.HasPrefix(candidate, prefix) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no debt matches ID %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous debt ID %q matches %d debts", prefix, len(matches))
	}
}
