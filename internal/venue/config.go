// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

var (
	// ErrNoVolume is returned for a year missing from a volume-keyed
	// venue's year mapping. The year is skipped.
	ErrNoVolume = errors.New("no volume mapping for year")

	// ErrUnknownLayout is returned for a venue whose layout has no scraper.
	ErrUnknownLayout = errors.New("unknown venue layout")
)

// DefaultVenues returns the built-in venue configurations, sorted by name.
func DefaultVenues() []types.VenueConfig {
	return []types.VenueConfig{
		{
			Name:                   "AAMAS",
			Layout:                 types.LayoutAAMAS,
			BaseURL:                "https://www.ifaamas.org",
			ProceedingsURLTemplate: "https://www.ifaamas.org/Proceedings/aamas{year}/forms/contents.htm",
			DisplayName:            "AAMAS",
		},
		{
			Name:                   "AISTATS",
			Layout:                 types.LayoutPMLR,
			BaseURL:                "https://proceedings.mlr.press",
			ProceedingsURLTemplate: "https://proceedings.mlr.press/v{volume}/",
			PaperWrapperClass:      "paper",
			AbstractPageSelector:   "div#abstract",
			DisplayName:            "AISTATS",
			YearMapping: map[int]int{
				2018: 84, 2019: 89, 2020: 108, 2021: 130, 2022: 151, 2023: 206, 2024: 238,
			},
		},
		{
			Name:                   "ICLR",
			Layout:                 types.LayoutICLR,
			BaseURL:                "https://dblp.org",
			ProceedingsURLTemplate: "https://dblp.org/db/conf/iclr/iclr{year}.html",
			AbstractPageSelector:   `meta[name="citation_abstract"]`,
			DisplayName:            "ICLR",
		},
		{
			Name:                   "ICML",
			Layout:                 types.LayoutPMLR,
			BaseURL:                "https://proceedings.mlr.press",
			ProceedingsURLTemplate: "https://proceedings.mlr.press/v{volume}/",
			PaperWrapperClass:      "paper",
			AbstractPageSelector:   "div#abstract",
			DisplayName:            "ICML",
			YearMapping: map[int]int{
				2018: 80, 2019: 97, 2020: 119, 2021: 139, 2022: 162, 2023: 202, 2024: 235,
			},
		},
		{
			Name:                   "IJCAI",
			Layout:                 types.LayoutIJCAI,
			BaseURL:                "https://www.ijcai.org",
			ProceedingsURLTemplate: "https://www.ijcai.org/proceedings/{year}/",
			PaperWrapperClass:      "paper_wrapper",
			AbstractPageSelector:   "div.col-md-12",
			DisplayName:            "IJCAI",
		},
	}
}

// LoadVenues reads venue configurations from a YAML mapping of venue name
// to settings. The map key becomes the venue Name; a missing layout is
// inferred from the name. An empty path returns DefaultVenues.
func LoadVenues(path string) ([]types.VenueConfig, error) {
	if path == "" {
		return DefaultVenues(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading venues file: %w", err)
	}

	var raw map[string]types.VenueConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing venues file %s: %w", path, err)
	}

	venues := make([]types.VenueConfig, 0, len(raw))
	for name, cfg := range raw {
		cfg.Name = name
		if cfg.Layout == "" {
			cfg.Layout = inferLayout(name)
		}
		venues = append(venues, cfg)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].Name < venues[j].Name })
	return venues, nil
}

func inferLayout(name string) types.VenueLayout {
	switch strings.ToUpper(name) {
	case "AAMAS":
		return types.LayoutAAMAS
	case "IJCAI":
		return types.LayoutIJCAI
	case "AISTATS", "ICML", "PMLR":
		return types.LayoutPMLR
	case "ICLR":
		return types.LayoutICLR
	}
	return ""
}

// SelectVenues returns the venues whose names appear in names, matched
// case-insensitively. An empty names list selects every venue.
func SelectVenues(all []types.VenueConfig, names []string) ([]types.VenueConfig, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]types.VenueConfig, len(all))
	for _, v := range all {
		byName[strings.ToUpper(v.Name)] = v
	}
	var out []types.VenueConfig
	for _, n := range names {
		v, ok := byName[strings.ToUpper(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown venue %q", n)
		}
		out = append(out, v)
	}
	return out, nil
}

// ResolveProceedingsURL returns the index URL of cfg for year. Templates
// with a {volume} placeholder look the year up in YearMapping and fail
// with ErrNoVolume when it is absent.
func ResolveProceedingsURL(cfg types.VenueConfig, year int) (string, error) {
	tmpl := cfg.ProceedingsURLTemplate
	if strings.Contains(tmpl, "{volume}") {
		volume, ok := cfg.YearMapping[year]
		if !ok || volume == 0 {
			return "", fmt.Errorf("%s %d: %w", cfg.Display(), year, ErrNoVolume)
		}
		tmpl = strings.ReplaceAll(tmpl, "{volume}", strconv.Itoa(volume))
	}
	return strings.ReplaceAll(tmpl, "{year}", strconv.Itoa(year)), nil
}
