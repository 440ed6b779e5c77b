package europeana

import (
	"encoding/json"
	"fmt"
)

// MultiString decodes a field the API sends either as a string or as an array of strings.
type MultiString []string

// UnmarshalJSON accepts a JSON string, an array of strings, or null.
func (m *MultiString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = MultiString{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*m = many
	return nil
}

// Present reports whether the field carries at least one non-blank value.
func (m MultiString) Present() bool {
	for _, v := range m {
		if v != "" {
			return true
		}
	}
	return false
}

// First returns the first value, or "" when empty.
func (m MultiString) First() string {
	if len(m) == 0 {
		return ""
	}
	return m[0]
}

// LangMap is a language-keyed field such as dcTitleLangAware.
type LangMap map[string]MultiString

// Has reports whether the language key is present at all.
func (l LangMap) Has(lang string) bool {
	_, ok := l[lang]
	return ok
}

// Record is one raw search result item.
type Record struct {
	ID           string      `json:"id"`
	Completeness int         `json:"completeness"`
	Language     MultiString `json:"language"`

	DcTitleLangAware LangMap     `json:"dcTitleLangAware"`
	DcTitle          MultiString `json:"dcTitle"`
	Title            MultiString `json:"title"`

	DcDescriptionLangAware LangMap     `json:"dcDescriptionLangAware"`
	DcDescription          MultiString `json:"dcDescription"`
	Description            MultiString `json:"description"`

	DcCreatorLangAware LangMap     `json:"dcCreatorLangAware"`
	DcCreator          MultiString `json:"dcCreator"`
	Creator            MultiString `json:"creator"`

	DcSubjectLangAware LangMap     `json:"dcSubjectLangAware"`
	DcSubject          MultiString `json:"dcSubject"`
	Subject            MultiString `json:"subject"`

	DataProvider MultiString `json:"dataProvider"`
	Year         MultiString `json:"year"`
	Country      MultiString `json:"country"`
	EdmPreview   MultiString `json:"edmPreview"`
	EdmIsShownBy MultiString `json:"edmIsShownBy"`
	EdmIsShownAt MultiString `json:"edmIsShownAt"`
	Rights       MultiString `json:"rights"`
}

// searchResponse is the search.json envelope.
type searchResponse struct {
	Success      *bool    `json:"success"`
	Error        string   `json:"error"`
	ItemsCount   int      `json:"itemsCount"`
	TotalResults int      `json:"totalResults"`
	NextCursor   string   `json:"nextCursor"`
	Items        []Record `json:"items"`
}
