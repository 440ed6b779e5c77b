package europeana

import (
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/source"
)

const (
	valueSep   = " "
	subjectSep = " | "
	yearSep    = " - "
)

// fieldChain builds the language-tagged -> multi-value -> plain fallback chain for one field.
func fieldChain(langAware LangMap, multi, plain MultiString, sep string) []source.Extractor {
	return []source.Extractor{
		source.Joined(langAware[english], sep),
		source.Joined(multi, sep),
		source.Joined(plain, sep),
	}
}

// ExtractTitle resolves the display title of a record.
func ExtractTitle(r *Record) string {
	return source.FirstNonEmpty(domain.UntitledSentinel, fieldChain(r.DcTitleLangAware, r.DcTitle, r.Title, valueSep)...)
}

// ExtractDescription resolves the description of a record.
func ExtractDescription(r *Record) string {
	return source.FirstNonEmpty(domain.NotProvided, fieldChain(r.DcDescriptionLangAware, r.DcDescription, r.Description, valueSep)...)
}

// ExtractMaker resolves the creator of a record.
func ExtractMaker(r *Record) string {
	return source.FirstNonEmpty(domain.NotProvided, fieldChain(r.DcCreatorLangAware, r.DcCreator, r.Creator, valueSep)...)
}

// ExtractSubject resolves the subject keywords of a record.
func ExtractSubject(r *Record) string {
	return source.FirstNonEmpty(domain.NotProvided, fieldChain(r.DcSubjectLangAware, r.DcSubject, r.Subject, subjectSep)...)
}

// Normalize maps an accepted record to a NormalizedItem with sanitized free text.
func Normalize(r *Record) domain.NormalizedItem {
	return domain.NormalizedItem{
		ID:                  r.ID,
		SourceTag:           domain.SourceEuropeana,
		Title:               source.Or(source.Sanitize(ExtractTitle(r)), domain.UntitledSentinel),
		Maker:               []domain.Maker{{Name: ExtractMaker(r)}},
		Date:                source.FirstNonEmpty(domain.NotProvided, source.Joined(r.Year, yearSep)),
		BaseImageURL:        source.Or(r.EdmPreview.First(), domain.EuropeanaNoImage),
		Description:         source.Or(source.Sanitize(ExtractDescription(r)), domain.NotProvided),
		PhysicalDescription: domain.NotProvided,
		Subject:             ExtractSubject(r),
		Provider:            source.Or(r.DataProvider.First(), domain.UnknownProvider),
		Country:             source.Or(r.Country.First(), domain.NotProvided),
		SourceLink:          source.Or(r.EdmIsShownAt.First(), domain.NotProvided),
		Rights:              source.Or(r.Rights.First(), domain.UnknownRights),
		ImagesCount:         1,
	}
}

// ExpandDetail turns a search item into the full record shown in the detail view.
// The aggregator catalog has no detail endpoint, so the full record is the item itself
// with exactly one image.
func ExpandDetail(item domain.NormalizedItem) domain.NormalizedItem {
	full := item
	full.SourceTag = domain.SourceEuropeana
	full.Title = source.Or(source.Sanitize(item.Title), domain.UntitledSentinel)
	full.Description = source.Or(source.Sanitize(item.Description), domain.NotProvided)
	full.PhysicalDescription = domain.NotProvided
	full.BriefDescription = domain.NotProvided
	full.BaseImageURL = source.Or(item.BaseImageURL, domain.EuropeanaNoImage)
	full.Date = source.Or(item.Date, domain.NotProvided)
	full.Subject = source.Or(item.Subject, domain.NotProvided)
	full.Provider = source.Or(item.Provider, domain.UnknownProvider)
	full.Country = source.Or(item.Country, domain.NotProvided)
	full.SourceLink = source.Or(item.SourceLink, domain.NotProvided)
	if len(full.Maker) == 0 {
		full.Maker = []domain.Maker{{Name: domain.NotProvided}}
	}
	full.Materials = []domain.TextRef{}
	full.Techniques = []domain.TextRef{}
	full.PlacesOfOrigin = []domain.PlaceOfOrigin{}
	full.ProductionDates = []domain.ProductionDate{}
	full.ImageURLs = []string{full.BaseImageURL}
	full.ImagesCount = 1
	return full
}
