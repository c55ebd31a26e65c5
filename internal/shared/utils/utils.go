package utils

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IsValidUUID reports whether u parses as a UUID
func IsValidUUID(u string) bool {
	if len(u) != 36 {
		return false
	}
	_, err := uuid.Parse(u)
	return err == nil
}

// ParseOptionalInt returns nil for empty or malformed input
func ParseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// ParseOptionalBool accepts true/false/1/0; anything else yields nil
func ParseOptionalBool(s string) *bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

// StringPtr returns nil for blank strings
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
