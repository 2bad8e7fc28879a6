package httpx

import (
	"net/http"
	"strconv"
)

// parseIntQuery returns the named query parameter as an int, or def when
// absent or malformed.
func parseIntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// ParseLimitOffset reads limit/offset pagination parameters, clamping the
// limit to [1, maxLimit] and the offset to non-negative.
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (limit, offset int) {
	limit = parseIntQuery(r, "limit", defLimit)
	if limit < 1 || limit > maxLimit {
		limit = defLimit
	}
	offset = parseIntQuery(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
