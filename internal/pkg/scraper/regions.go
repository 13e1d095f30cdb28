package scraper

import (
	"strings"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/grid"
)

// city is one entry of the curated list, the viewport is roughly the
// metropolitan area the portal answers for around the city center
type city struct {
	name             string
	lat, lng         float64
	latSpan, lngSpan float64
}

// cities QuintoAndar operates in, the fast partial-coverage region source.
// Full coverage of a territory goes through the grid instead.
var cities = []city{
	{"sao-paulo", -23.5505, -46.6333, 0.35, 0.42},
	{"rio-de-janeiro", -22.9068, -43.1729, 0.25, 0.40},
	{"belo-horizonte", -19.9167, -43.9345, 0.22, 0.25},
	{"brasilia", -15.7942, -47.8822, 0.25, 0.35},
	{"curitiba", -25.4284, -49.2733, 0.20, 0.22},
	{"porto-alegre", -30.0346, -51.2177, 0.20, 0.22},
	{"salvador", -12.9777, -38.5016, 0.20, 0.25},
	{"recife", -8.0476, -34.8770, 0.18, 0.20},
	{"fortaleza", -3.7319, -38.5267, 0.18, 0.22},
	{"campinas", -22.9099, -47.0626, 0.18, 0.20},
}

// CityRegions return the curated named regions, optionally filtered by
// city name. Unknown names are ignored.
func CityRegions(filter []string) []grid.Region {
	wanted := make(map[string]bool, len(filter))
	for _, name := range filter {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var regions []grid.Region
	for _, c := range cities {
		if len(wanted) > 0 && !wanted[c.name] {
			continue
		}

		regions = append(regions, grid.Region{
			Label:     c.name,
			CenterLat: c.lat,
			CenterLng: c.lng,
			Viewport: grid.BoundingBox{
				North: c.lat + c.latSpan/2,
				South: c.lat - c.latSpan/2,
				East:  c.lng + c.lngSpan/2,
				West:  c.lng - c.lngSpan/2,
			},
		})
	}

	for i := range regions {
		regions[i].Index = i + 1
		regions[i].Total = len(regions)
	}

	return regions
}
