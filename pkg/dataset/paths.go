package dataset

import (
	"strconv"
	"strings"
)

// Hierarchy paths use "/" separators: "ministry/bureau/division".
const pathSep = "/"

// parentPath returns the path one level up, or "" for top-level paths.
func parentPath(p string) string {
	i := strings.LastIndex(p, pathSep)
	if i < 0 {
		return ""
	}
	return p[:i]
}

// parseIDList decodes a comma-separated id list ("12,34,56") as stored in
// the snapshot database. Unparseable entries are skipped.
func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
