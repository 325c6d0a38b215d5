package geoapify

// Response is the decoded body of a reverse or search request.
//
// GeoJSON-shaped answers carry a features array; format=json answers from the
// current API carry flat results instead. Both are accepted.
type Response struct {
	Features []Feature    `json:"features"`
	Results  []Properties `json:"results"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Properties *Properties `json:"properties"`
}

// Properties holds the place attributes of a match.
// Pointer fields distinguish a missing value from a zero value.
type Properties struct {
	Timezone  *Timezone `json:"timezone"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	Country   string    `json:"country"`
	Postcode  string    `json:"postcode"`
	City      string    `json:"city"`
	County    string    `json:"county"`
	Street    string    `json:"street"`
	Formatted string    `json:"formatted"`
}

// Timezone is the timezone block attached to a match.
type Timezone struct {
	OffsetSTDSeconds *int   `json:"offset_STD_seconds"`
	OffsetDSTSeconds *int   `json:"offset_DST_seconds"`
	Name             string `json:"name"`
	OffsetSTD        string `json:"offset_STD"`
	OffsetDST        string `json:"offset_DST"`
	AbbreviationSTD  string `json:"abbreviation_STD"`
	AbbreviationDST  string `json:"abbreviation_DST"`
}

// First returns the properties of the first match, or nil when there is none.
// Strings are stripped of any markup before they are returned.
func (r *Response) First() *Properties {
	if r == nil {
		return nil
	}
	var p *Properties
	switch {
	case len(r.Features) > 0:
		p = r.Features[0].Properties
	case len(r.Results) > 0:
		p = &r.Results[0]
	}
	if p == nil {
		return nil
	}
	clean := *p
	clean.Country = sanitize(p.Country)
	clean.Postcode = sanitize(p.Postcode)
	clean.City = sanitize(p.City)
	clean.County = sanitize(p.County)
	clean.Street = sanitize(p.Street)
	clean.Formatted = sanitize(p.Formatted)
	if p.Timezone != nil {
		tz := *p.Timezone
		tz.Name = sanitize(tz.Name)
		tz.OffsetSTD = sanitize(tz.OffsetSTD)
		tz.OffsetDST = sanitize(tz.OffsetDST)
		clean.Timezone = &tz
	}
	return &clean
}

// Place returns the best available place name: city, county, street, then the
// formatted address. It returns "" when all are empty.
func (p *Properties) Place() string {
	for _, s := range []string{p.City, p.County, p.Street, p.Formatted} {
		if s != "" {
			return s
		}
	}
	return ""
}
