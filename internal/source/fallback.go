package source

import "strings"

// Extractor yields a candidate value for a field, or "" when it has none.
type Extractor func() string

// FirstNonEmpty runs the extractors in order and returns the first non-blank result,
// or def when every extractor comes up empty.
func FirstNonEmpty(def string, extractors ...Extractor) string {
	for _, extract := range extractors {
		if v := strings.TrimSpace(extract()); v != "" {
			return v
		}
	}
	return def
}

// Joined returns an extractor that joins the non-blank values with sep.
func Joined(values []string, sep string) Extractor {
	return func() string {
		return JoinNonEmpty(values, sep)
	}
}

// JoinNonEmpty joins values with sep, skipping blank entries.
func JoinNonEmpty(values []string, sep string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}

// Value returns an extractor for a plain string.
func Value(s string) Extractor {
	return func() string { return s }
}

// Or returns s, or def when s is blank.
func Or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
