// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// VenueLayout selects the scraping strategy for a proceedings site.
type VenueLayout string

const (
	LayoutAAMAS VenueLayout = "aamas"
	LayoutIJCAI VenueLayout = "ijcai"
	LayoutPMLR  VenueLayout = "pmlr"
	LayoutICLR  VenueLayout = "iclr"
)

// VenueConfig describes one proceedings site. It is read once at startup
// and never modified.
type VenueConfig struct {
	// Name is the key of the venue in the configuration file (e.g. "ICML").
	Name string `json:"name" yaml:"name"`

	// Layout selects the scraper for the index and detail pages.
	Layout VenueLayout `json:"layout" yaml:"layout"`

	// BaseURL is used to resolve relative links on the index page.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ProceedingsURLTemplate contains either a {year} or a {volume}
	// placeholder.
	ProceedingsURLTemplate string `json:"proceedings_url_template" yaml:"proceedings_url_template"`

	// PaperWrapperClass is the HTML class of one paper entry on the index page.
	PaperWrapperClass string `json:"paper_wrapper_class" yaml:"paper_wrapper_class"`

	// AbstractPageSelector locates the abstract on a paper detail page.
	AbstractPageSelector string `json:"abstract_page_selector" yaml:"abstract_page_selector"`

	// DisplayName is written into the Source column of each record.
	DisplayName string `json:"venue_name" yaml:"venue_name"`

	// YearMapping maps a year to an archive volume for venues keyed by
	// volume. Nil for venues whose URL contains the year directly.
	YearMapping map[int]int `json:"year_mapping,omitempty" yaml:"year_mapping,omitempty"`
}

// Display returns DisplayName, falling back to Name.
func (v VenueConfig) Display() string {
	if v.DisplayName != "" {
		return v.DisplayName
	}
	return v.Name
}

// KeywordConceptSet is a named list of case-insensitive tokens that
// together represent one concept (e.g. "adversarial").
type KeywordConceptSet struct {
	Name   string   `json:"name" yaml:"name"`
	Tokens []string `json:"tokens" yaml:"tokens"`
}
