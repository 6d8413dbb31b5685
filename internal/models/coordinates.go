package models

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point, in the range [-90, 90].
	Longitude float64 // Longitude of the geographical point, in the range [-180, 180].
}

// Valid reports whether both latitude and longitude fall within their allowed ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
