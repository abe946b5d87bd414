package survey

import "strings"

// ResolveColumn returns the header that best represents a logical field.
//
// Headers are scanned in order twice: the first header containing every
// keyword wins; failing that, the first header containing any keyword wins.
// The second result is false when nothing matches, which callers treat as
// "question not present in this sheet". An empty keyword list matches the
// first header, so callers always pass at least one keyword.
func ResolveColumn(headers []string, keywords []string) (string, bool) {
	for _, h := range headers {
		if containsAll(h, keywords) {
			return h, true
		}
	}
	for _, h := range headers {
		if containsAny(h, keywords) {
			return h, true
		}
	}
	return "", false
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
