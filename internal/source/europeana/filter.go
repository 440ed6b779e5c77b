package europeana

import "strings"

// DefaultMinCompleteness is the lowest completeness score, on the 0-10 scale, a record may have.
const DefaultMinCompleteness = 3

const english = "en"

// Filter decides whether a raw record is worth showing for a query.
// It holds no mutable state, so the verdict for a record never changes.
type Filter struct {
	MinCompleteness int
}

// Accept applies the quality and relevance policy to one record:
//  1. reject below the completeness threshold;
//  2. accept English-only records that have a title;
//  3. reject records lacking an English title or an English description;
//  4. accept when the query appears in a creator, an English subject, or the title.
func (f Filter) Accept(r *Record, query string) bool {
	if r.Completeness < f.MinCompleteness {
		return false
	}

	if englishOnly(r.Language) && (r.Title.Present() || r.DcTitle.Present()) {
		return true
	}

	if !r.DcTitleLangAware.Has(english) || !r.DcDescriptionLangAware.Has(english) {
		return false
	}

	q := strings.ToLower(query)
	return containsFold(r.DcCreator, q) ||
		containsFold(r.DcSubjectLangAware[english], q) ||
		containsFold(r.Title, q)
}

func englishOnly(langs MultiString) bool {
	return len(langs) == 1 && langs[0] == english
}

// containsFold reports whether any value contains the already lower-cased query.
func containsFold(values []string, lowerQuery string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}
