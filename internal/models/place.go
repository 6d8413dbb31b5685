package models

// Category classifies a public place into one of a fixed taxonomy.
// The taxonomy is closed: every place maps to exactly one category,
// with CategoryOther as the fallback.
type Category string

// The fixed place category taxonomy.
const (
	CategoryDining     Category = "Dining"
	CategoryShopping   Category = "Shopping"
	CategoryHealthcare Category = "Healthcare"
	CategoryServices   Category = "Services"
	CategoryTransport  Category = "Transport"
	CategoryRecreation Category = "Recreation"
	CategoryOther      Category = "Other"
)

// OverpassElement represents a raw point-of-interest record returned by the
// Overpass API. Records are ephemeral: they are discarded after validation.
type OverpassElement struct {
	ID   int64             `json:"id"`   // OSM element identifier.
	Type string            `json:"type"` // OSM element type (node, way, relation).
	Lat  float64           `json:"lat"`  // Latitude of the element.
	Lon  float64           `json:"lon"`  // Longitude of the element.
	Tags map[string]string `json:"tags"` // Free-form OSM tag key/value pairs.
}

// ValidatedPlace is a candidate that passed the address-completeness gate.
// Address is always non-empty and contains at least a street and a city.
type ValidatedPlace struct {
	Address     string      // Normalized mailing address of the place.
	Coordinates Coordinates // Geographical position of the place.
	Category    Category    // Category derived from the source tags.
}

// Location is a geocoding result: the canonical address string reported by
// the provider together with the resolved coordinates.
type Location struct {
	Address     string      // Canonical address as reported by the geocoding provider.
	Coordinates Coordinates // Resolved geographical position.
}
