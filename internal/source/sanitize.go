package source

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags are the inline tags kept in upstream free text.
var AllowedTags = []string{"i", "em", "b", "strong", "br", "p"}

// bluemonday policies are safe for concurrent use once built.
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	return p
}()

// Sanitize strips every tag and attribute outside AllowedTags.
func Sanitize(s string) string {
	return strings.TrimSpace(htmlPolicy.Sanitize(s))
}
