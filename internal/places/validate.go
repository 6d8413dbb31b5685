// Package places validates raw point-of-interest records and assigns them
// to the fixed category taxonomy.
package places

import (
	"strings"

	"github.com/delocator/delocator/internal/models"
)

// Validate promotes a raw record to a ValidatedPlace if it carries usable
// coordinates and a complete mailing address. A record lacking either a
// street or a city tag is rejected
// regardless of how rich its other tags are; a name or brand alone never
// suffices. This gate guarantees every anonymized location is a real,
// addressable public place.
//
// The assembled address is "street[ housenumber], [postcode ]city".
func Validate(el models.OverpassElement) (models.ValidatedPlace, bool) {
	coords := models.Coordinates{Latitude: el.Lat, Longitude: el.Lon}
	// Elements missing coordinates decode as the zero value; a place the map
	// cannot position is useless as an anonymized location.
	if !coords.Valid() || (el.Lat == 0 && el.Lon == 0) {
		return models.ValidatedPlace{}, false
	}

	street := strings.TrimSpace(el.Tags["addr:street"])
	city := strings.TrimSpace(el.Tags["addr:city"])
	if street == "" || city == "" {
		return models.ValidatedPlace{}, false
	}

	housenumber := strings.TrimSpace(el.Tags["addr:housenumber"])
	postcode := strings.TrimSpace(el.Tags["addr:postcode"])

	first := street
	if housenumber != "" {
		first = street + " " + housenumber
	}
	second := city
	if postcode != "" {
		second = postcode + " " + city
	}

	return models.ValidatedPlace{
		Address:     first + ", " + second,
		Coordinates: coords,
		Category:    Categorize(el.Tags),
	}, true
}

// CollectValidated validates raw records in order and returns at most limit
// validated places. Only records passing validation count toward the cap;
// rejected records do not.
func CollectValidated(elements []models.OverpassElement, limit int) []models.ValidatedPlace {
	validated := make([]models.ValidatedPlace, 0, limit)
	for _, el := range elements {
		place, ok := Validate(el)
		if !ok {
			continue
		}
		validated = append(validated, place)
		if len(validated) >= limit {
			break
		}
	}
	return validated
}

// Categorize maps OSM tags to a place category. The rules are checked in a
// fixed priority order and the first match wins; tag combinations matching no
// rule fall back to CategoryOther, so assignment never fails.
func Categorize(tags map[string]string) models.Category {
	amenity := tags["amenity"]
	shop := tags["shop"]
	leisure := tags["leisure"]
	highway := tags["highway"]

	switch {
	case amenity == "restaurant" || amenity == "cafe" || amenity == "bar" || amenity == "fast_food":
		return models.CategoryDining
	case shop == "supermarket" || shop == "bakery" || shop == "convenience":
		return models.CategoryShopping
	case amenity == "pharmacy":
		return models.CategoryHealthcare
	case amenity == "bank" || amenity == "atm" || amenity == "post_office" || amenity == "fuel":
		return models.CategoryServices
	case highway == "bus_stop":
		return models.CategoryTransport
	case leisure == "park" || shop == "hairdresser":
		return models.CategoryRecreation
	default:
		return models.CategoryOther
	}
}
