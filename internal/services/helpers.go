package services

import (
	"context"
	"strings"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// appendUnique adds value to ids when absent, reporting whether the set changed.
func appendUnique(ids []string, value string) ([]string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ids, false
	}
	for _, id := range ids {
		if id == value {
			return ids, false
		}
	}
	return append(ids, value), true
}

// bothSet reports whether two strings are non-empty and equal after trimming.
// Missing fields never match a dimension, including two empty values.
func bothSet(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && b != "" && a == b
}
