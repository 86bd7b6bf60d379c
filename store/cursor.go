package store

import (
	"encoding/base64"
	"encoding/json"
)

// cursor is the keyset pagination token List returns and accepts: the
// (sortAt, id) of the last item on a page. It is intentionally
// unauthenticated — spec.md §9 treats it as an opaque hint a client can
// only use to shift its own pagination window.
type cursor struct {
	SortAt int64  `json:"sortAt"`
	Id     string `json:"id"`
}

func encodeCursor(c cursor) string {
	raw, _ := json.Marshal(c)
	return base64.URLEncoding.EncodeToString(raw)
}

// decodeCursor returns (cursor, true) on success. An invalid or malformed
// token decodes to (zero, false) and callers must treat that identically
// to no cursor at all (spec.md §6).
func decodeCursor(s string) (cursor, bool) {
	if s == "" {
		return cursor{}, false
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, false
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return cursor{}, false
	}
	if c.Id == "" {
		return cursor{}, false
	}
	return c, true
}
