package vam

import (
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/source"
)

// Search API response structures
type searchResponse struct {
	Info struct {
		RecordCount int `json:"record_count"`
		ImageCount  int `json:"image_count"`
		Page        int `json:"page"`
		Pages       int `json:"pages"`
	} `json:"info"`
	Records []searchRecord `json:"records"`
}

type searchRecord struct {
	SystemNumber string `json:"systemNumber"`
	PrimaryMaker *struct {
		Name        string `json:"name"`
		Association string `json:"association"`
	} `json:"_primaryMaker"`
	PrimaryTitle   string `json:"_primaryTitle"`
	PrimaryDate    string `json:"_primaryDate"`
	PrimaryPlace   string `json:"_primaryPlace"`
	PrimaryImageID string `json:"_primaryImageId"`
	Images         *struct {
		PrimaryThumbnail string `json:"_primary_thumbnail"`
		IIIFImageBaseURL string `json:"_iiif_image_base_url"`
	} `json:"_images"`
}

// Object detail response structures
type detailResponse struct {
	Record *detailRecord `json:"record"`
	Meta   struct {
		Images struct {
			PrimaryThumbnail string `json:"_primary_thumbnail"`
			IIIFImage        string `json:"_iiif_image"`
		} `json:"images"`
	} `json:"meta"`
}

type termRef struct {
	Text string `json:"text"`
	ID   string `json:"id"`
}

type detailRecord struct {
	SystemNumber      string `json:"systemNumber"`
	ArtistMakerPerson []struct {
		Name        termRef `json:"name"`
		Association termRef `json:"association"`
	} `json:"artistMakerPerson"`
	Titles []struct {
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"titles"`
	SummaryDescription  string    `json:"summaryDescription"`
	PhysicalDescription string    `json:"physicalDescription"`
	BriefDescription    string    `json:"briefDescription"`
	Materials           []termRef `json:"materials"`
	Techniques          []termRef `json:"techniques"`
	PlacesOfOrigin      []struct {
		Place       termRef `json:"place"`
		Association termRef `json:"association"`
	} `json:"placesOfOrigin"`
	ProductionDates []struct {
		Date        termRef `json:"date"`
		Association termRef `json:"association"`
	} `json:"productionDates"`
	Images []string `json:"images"`
}

// normalizeRecord maps one search record to a NormalizedItem.
// It is a pure function of its input.
func normalizeRecord(r *searchRecord) domain.NormalizedItem {
	makerName := ""
	if r.PrimaryMaker != nil {
		makerName = r.PrimaryMaker.Name
	}
	var baseImage, thumbnail string
	if r.Images != nil {
		baseImage = r.Images.IIIFImageBaseURL
		thumbnail = r.Images.PrimaryThumbnail
	}

	item := domain.NormalizedItem{
		ID:                  r.SystemNumber,
		SourceTag:           domain.SourceVAM,
		Title:               source.Sanitize(source.Or(r.PrimaryTitle, domain.UntitledSentinel)),
		Maker:               []domain.Maker{{Name: source.Or(makerName, domain.UnknownMaker)}},
		Date:                source.Or(r.PrimaryDate, domain.NotProvided),
		BaseImageURL:        source.Or(baseImage, domain.VAMNoImage),
		ThumbnailURL:        source.Or(thumbnail, domain.VAMNoImage),
		Description:         domain.NotProvided,
		PhysicalDescription: domain.NotProvided,
		Subject:             domain.NotProvided,
		Provider:            "Victoria and Albert Museum",
		Country:             source.Or(r.PrimaryPlace, domain.NotProvided),
		SourceLink:          objectPageURL(r.SystemNumber),
	}
	if item.HasImage() {
		item.ImagesCount = 1
	}
	return item
}

// normalizeDetail maps a full object record to a NormalizedItem with every structured field.
func normalizeDetail(resp *detailResponse, iiifBase string) domain.NormalizedItem {
	r := resp.Record

	makers := make([]domain.Maker, 0, len(r.ArtistMakerPerson))
	for _, m := range r.ArtistMakerPerson {
		if m.Name.Text == "" {
			continue
		}
		makers = append(makers, domain.Maker{Name: m.Name.Text, ID: m.Name.ID})
	}
	if len(makers) == 0 {
		makers = append(makers, domain.Maker{Name: domain.UnknownMaker})
	}

	title := ""
	if len(r.Titles) > 0 {
		title = r.Titles[0].Title
	}

	imageURLs := make([]string, 0, len(r.Images))
	for _, ref := range r.Images {
		if ref != "" {
			imageURLs = append(imageURLs, iiifBase+ref+"/full/full/0/default.jpg")
		}
	}
	baseImage := domain.VAMNoImage
	if resp.Meta.Images.IIIFImage != "" {
		baseImage = resp.Meta.Images.IIIFImage
	} else if len(r.Images) > 0 && r.Images[0] != "" {
		baseImage = iiifBase + r.Images[0] + "/"
	}

	item := domain.NormalizedItem{
		ID:                  r.SystemNumber,
		SourceTag:           domain.SourceVAM,
		Title:               source.Sanitize(source.Or(title, domain.UntitledSentinel)),
		Maker:               makers,
		Date:                domain.NotProvided,
		BaseImageURL:        baseImage,
		ThumbnailURL:        source.Or(resp.Meta.Images.PrimaryThumbnail, domain.VAMNoImage),
		Description:         source.Sanitize(source.Or(r.SummaryDescription, domain.NotProvided)),
		PhysicalDescription: source.Sanitize(source.Or(r.PhysicalDescription, domain.NotProvided)),
		BriefDescription:    source.Sanitize(source.Or(r.BriefDescription, domain.NotProvided)),
		Subject:             domain.NotProvided,
		Provider:            "Victoria and Albert Museum",
		Country:             domain.NotProvided,
		SourceLink:          objectPageURL(r.SystemNumber),
		Materials:           toTextRefs(r.Materials),
		Techniques:          toTextRefs(r.Techniques),
		PlacesOfOrigin:      make([]domain.PlaceOfOrigin, 0, len(r.PlacesOfOrigin)),
		ProductionDates:     make([]domain.ProductionDate, 0, len(r.ProductionDates)),
		ImageURLs:           imageURLs,
		ImagesCount:         len(imageURLs),
	}

	for _, p := range r.PlacesOfOrigin {
		item.PlacesOfOrigin = append(item.PlacesOfOrigin, domain.PlaceOfOrigin{
			Place:       domain.TextRef(p.Place),
			Association: domain.TextRef(p.Association),
		})
	}
	if len(item.PlacesOfOrigin) > 0 && item.PlacesOfOrigin[0].Place.Text != "" {
		item.Country = item.PlacesOfOrigin[0].Place.Text
	}
	for _, d := range r.ProductionDates {
		item.ProductionDates = append(item.ProductionDates, domain.ProductionDate{
			Date:        domain.TextRef(d.Date),
			Association: domain.TextRef(d.Association),
		})
	}
	if len(item.ProductionDates) > 0 && item.ProductionDates[0].Date.Text != "" {
		item.Date = item.ProductionDates[0].Date.Text
	}

	return item
}

func toTextRefs(refs []termRef) []domain.TextRef {
	out := make([]domain.TextRef, 0, len(refs))
	for _, r := range refs {
		if r.Text == "" {
			continue
		}
		out = append(out, domain.TextRef(r))
	}
	return out
}

func objectPageURL(systemNumber string) string {
	if systemNumber == "" {
		return domain.NotProvided
	}
	return "https://collections.vam.ac.uk/item/" + systemNumber + "/"
}
