package util

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StoredName derives the deterministic object-storage key for an uploaded
// file: identifying prefix parts, a millisecond timestamp, and the original
// filename with whitespace collapsed to underscores.
func StoredName(now time.Time, originalName string, prefixParts ...string) string {
	safe := strings.Join(strings.Fields(originalName), "_")
	parts := make([]string, 0, len(prefixParts)+2)
	for _, p := range prefixParts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	parts = append(parts, strconv.FormatInt(now.UnixMilli(), 10), safe)
	return strings.Join(parts, "-")
}

// StoredNameFromURL recovers the stored name from the tail of a public
// storage URL so a replacement upload can reuse the same key. Backends
// path-escape names when building URLs, so the tail is unescaped again.
func StoredNameFromURL(publicURL string) string {
	trimmed := strings.TrimRight(publicURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if unescaped, err := url.PathUnescape(trimmed); err == nil {
		return unescaped
	}
	return trimmed
}
