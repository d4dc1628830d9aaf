package flight

// Facets are the slider endpoints and airline choices derived from the full,
// unfiltered flight list.
type Facets struct {
	Airlines       []Airline
	PriceBounds    Range
	DurationBounds Range
}

// AirlineCodes returns the codes of every airline in the facets.
func (f Facets) AirlineCodes() []string {
	codes := make([]string, len(f.Airlines))
	for i, a := range f.Airlines {
		codes[i] = a.Code
	}
	return codes
}

// FacetsOf collects distinct airlines (first-seen name wins) and the observed
// price and duration bounds. An empty list yields the default ranges.
func FacetsOf(flights []Flight) Facets {
	if len(flights) == 0 {
		return Facets{PriceBounds: DefaultPriceRange, DurationBounds: DefaultDurationRange}
	}

	seen := make(map[string]struct{}, len(flights))
	facets := Facets{
		PriceBounds:    Range{Min: flights[0].Price.Amount, Max: flights[0].Price.Amount},
		DurationBounds: Range{Min: float64(flights[0].Duration), Max: float64(flights[0].Duration)},
	}
	for _, f := range flights {
		if _, ok := seen[f.Airline.Code]; !ok {
			seen[f.Airline.Code] = struct{}{}
			name := f.Airline.Name
			if name == "" {
				name = f.Airline.Code
			}
			facets.Airlines = append(facets.Airlines, Airline{Code: f.Airline.Code, Name: name})
		}
		facets.PriceBounds.Min = min(facets.PriceBounds.Min, f.Price.Amount)
		facets.PriceBounds.Max = max(facets.PriceBounds.Max, f.Price.Amount)
		facets.DurationBounds.Min = min(facets.DurationBounds.Min, float64(f.Duration))
		facets.DurationBounds.Max = max(facets.DurationBounds.Max, float64(f.Duration))
	}
	return facets
}
