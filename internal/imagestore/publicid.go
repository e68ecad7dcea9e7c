package imagestore

import (
	"regexp"
	"strings"
)

// Hosted asset URLs look like
// https://host/.../upload/v1699999999/reports/42/abc123.jpg
// where the version segment and the extension are both optional.
var uploadPathPattern = regexp.MustCompile(`/upload/(?:v\d+/)?(.+)$`)

// ExtractPublicID recovers the store identifier from an asset URL.
// Returns false when the URL does not match the upload path shape, in
// which case the remote asset cannot be deleted through this client.
func ExtractPublicID(rawURL string) (string, bool) {
	u := rawURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}

	m := uploadPathPattern.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}

	id := m[1]
	if id == "" || strings.HasSuffix(id, "/") {
		return "", false
	}

	// Drop a trailing file extension on the last segment only.
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	if id == "" {
		return "", false
	}
	return id, true
}
