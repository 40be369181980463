package imgix

import (
	"net/url"
	"strings"
)

// EncodePath escapes every segment of the path on its own, keeping the
// slashes in between. A path being itself an absolute URL (web proxy source)
// is escaped as a whole.
func EncodePath(path string) string {
	if isProxied(path) {
		return escape(path)
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}

// EncodeQuery joins the entries as k=v pairs, in the given order.
func EncodeQuery(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(e.Key))
		b.WriteByte('=')
		b.WriteString(escape(e.Value))
	}
	return b.String()
}

// escape is url.QueryEscape with spaces as %20. A literal + is already
// escaped as %2B so the replacement is unambiguous.
func escape(s string) string {
	return strings.Replace(url.QueryEscape(s), "+", "%20", -1)
}

func isProxied(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
