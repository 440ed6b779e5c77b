package domain

// SourceTag identifies which catalog an item came from.
// Values include SourceVAM (page-indexed museum catalog) and SourceEuropeana (cursor-indexed aggregator).
type SourceTag string

const (
	SourceVAM       SourceTag = "va"
	SourceEuropeana SourceTag = "euro"
)

// Valid reports whether the tag names a known catalog.
func (t SourceTag) Valid() bool {
	return t == SourceVAM || t == SourceEuropeana
}

// Sentinel values substituted for fields the upstream catalogs omit.
const (
	UntitledSentinel = "Untitled"
	NotProvided      = "Not provided"
	UnknownMaker     = "Unknown"
	UnknownProvider  = "Unknown provider"
	UnknownRights    = "Unknown rights"
	VAMNoImage       = "/images/no_image.png"
	EuropeanaNoImage = "/No_Image_Available.jpg"
)

// Maker is a creator credited on an item.
type Maker struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// TextRef is a labelled vocabulary term, optionally with the upstream term ID.
type TextRef struct {
	Text string `json:"text"`
	ID   string `json:"id,omitempty"`
}

// PlaceOfOrigin records where an object was made and how the place relates to it.
type PlaceOfOrigin struct {
	Place       TextRef `json:"place"`
	Association TextRef `json:"association"`
}

// ProductionDate records a dated production event.
type ProductionDate struct {
	Date        TextRef `json:"date"`
	Association TextRef `json:"association"`
}

// NormalizedItem is the common item shape produced by every catalog adapter.
// Fields the upstream does not supply hold sentinel values, never empty strings.
type NormalizedItem struct {
	ID           string    `json:"id"`
	SourceTag    SourceTag `json:"sourceTag"`
	Title        string    `json:"title"`
	Maker        []Maker   `json:"maker"`
	Date         string    `json:"date"`
	BaseImageURL string    `json:"baseImageUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`

	Description         string `json:"description"`
	PhysicalDescription string `json:"physicalDescription"`
	BriefDescription    string `json:"briefDescription,omitempty"`
	Subject             string `json:"subject"`
	Provider            string `json:"provider"`
	Country             string `json:"country"`
	SourceLink          string `json:"sourceLink"`
	Rights              string `json:"rights,omitempty"`

	// Populated by the page-indexed catalog's detail lookup.
	Materials       []TextRef        `json:"materials,omitempty"`
	Techniques      []TextRef        `json:"techniques,omitempty"`
	PlacesOfOrigin  []PlaceOfOrigin  `json:"placesOfOrigin,omitempty"`
	ProductionDates []ProductionDate `json:"productionDates,omitempty"`
	ImageURLs       []string         `json:"imageUrls,omitempty"`
	ImagesCount     int              `json:"imagesCount"`
}

// HasImage reports whether the item points at a real image rather than a placeholder.
func (i *NormalizedItem) HasImage() bool {
	switch i.BaseImageURL {
	case "", VAMNoImage, EuropeanaNoImage:
		return false
	}
	return true
}

// PrimaryMaker returns the first credited maker, or the unknown-maker sentinel.
func (i *NormalizedItem) PrimaryMaker() Maker {
	if len(i.Maker) == 0 {
		return Maker{Name: UnknownMaker}
	}
	return i.Maker[0]
}
