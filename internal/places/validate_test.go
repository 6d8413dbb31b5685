package places_test

import (
	"fmt"
	"testing"

	"github.com/delocator/delocator/internal/models"
	"github.com/delocator/delocator/internal/places"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AddressGate(t *testing.T) {
	t.Run("accepts record with street and city", func(t *testing.T) {
		place, ok := places.Validate(models.OverpassElement{
			Lat: 45.0,
			Lon: 13.0,
			Tags: map[string]string{
				"amenity":     "restaurant",
				"addr:street": "Via Roma",
				"addr:city":   "Trieste",
			},
		})

		require.True(t, ok)
		assert.Equal(t, "Via Roma, Trieste", place.Address)
		assert.Equal(t, models.CategoryDining, place.Category)
		assert.InEpsilon(t, 45.0, place.Coordinates.Latitude, 0.0001)
		assert.InEpsilon(t, 13.0, place.Coordinates.Longitude, 0.0001)
	})

	t.Run("rejects record without street and city despite rich tags", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{
			Tags: map[string]string{
				"name":     "Joe's Diner",
				"amenity":  "restaurant",
				"brand":    "Joe's",
				"operator": "Joe's Holding",
			},
		})

		assert.False(t, ok)
	})

	t.Run("rejects record with street but no city", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{
			Tags: map[string]string{
				"amenity":     "cafe",
				"addr:street": "Hauptstrasse",
			},
		})

		assert.False(t, ok)
	})

	t.Run("rejects record with city but no street", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{
			Tags: map[string]string{
				"amenity":   "cafe",
				"addr:city": "Graz",
			},
		})

		assert.False(t, ok)
	})

	t.Run("rejects whitespace-only street", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{
			Tags: map[string]string{
				"addr:street": "   ",
				"addr:city":   "Graz",
			},
		})

		assert.False(t, ok)
	})

	t.Run("rejects record without tags", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{Lat: 45.0, Lon: 13.0})

		assert.False(t, ok)
	})

	t.Run("rejects record without coordinates despite a complete address", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{
			Tags: map[string]string{
				"amenity":     "restaurant",
				"addr:street": "Via Roma",
				"addr:city":   "Trieste",
			},
		})

		assert.False(t, ok)
	})

	t.Run("rejects record with out-of-range coordinates", func(t *testing.T) {
		_, ok := places.Validate(models.OverpassElement{
			Lat: 91.0,
			Lon: 13.0,
			Tags: map[string]string{
				"addr:street": "Via Roma",
				"addr:city":   "Trieste",
			},
		})

		assert.False(t, ok)
	})
}

func TestValidate_AddressAssembly(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{
			name: "street and city only",
			tags: map[string]string{"addr:street": "Via Roma", "addr:city": "Trieste"},
			want: "Via Roma, Trieste",
		},
		{
			name: "with house number",
			tags: map[string]string{
				"addr:street": "Via Roma", "addr:housenumber": "12", "addr:city": "Trieste",
			},
			want: "Via Roma 12, Trieste",
		},
		{
			name: "with postcode",
			tags: map[string]string{
				"addr:street": "Via Roma", "addr:postcode": "34121", "addr:city": "Trieste",
			},
			want: "Via Roma, 34121 Trieste",
		},
		{
			name: "with house number and postcode",
			tags: map[string]string{
				"addr:street": "Via Roma", "addr:housenumber": "12",
				"addr:postcode": "34121", "addr:city": "Trieste",
			},
			want: "Via Roma 12, 34121 Trieste",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			place, ok := places.Validate(models.OverpassElement{Lat: 45.65, Lon: 13.78, Tags: tc.tags})

			require.True(t, ok)
			assert.Equal(t, tc.want, place.Address)
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		tags map[string]string
		want models.Category
	}{
		{map[string]string{"amenity": "restaurant"}, models.CategoryDining},
		{map[string]string{"amenity": "cafe"}, models.CategoryDining},
		{map[string]string{"amenity": "bar"}, models.CategoryDining},
		{map[string]string{"amenity": "fast_food"}, models.CategoryDining},
		{map[string]string{"shop": "supermarket"}, models.CategoryShopping},
		{map[string]string{"shop": "bakery"}, models.CategoryShopping},
		{map[string]string{"shop": "convenience"}, models.CategoryShopping},
		{map[string]string{"amenity": "pharmacy"}, models.CategoryHealthcare},
		{map[string]string{"amenity": "bank"}, models.CategoryServices},
		{map[string]string{"amenity": "atm"}, models.CategoryServices},
		{map[string]string{"amenity": "post_office"}, models.CategoryServices},
		{map[string]string{"amenity": "fuel"}, models.CategoryServices},
		{map[string]string{"highway": "bus_stop"}, models.CategoryTransport},
		{map[string]string{"leisure": "park"}, models.CategoryRecreation},
		{map[string]string{"shop": "hairdresser"}, models.CategoryRecreation},
		{map[string]string{"building": "yes"}, models.CategoryOther},
		{map[string]string{}, models.CategoryOther},
		{nil, models.CategoryOther},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%v", tc.tags), func(t *testing.T) {
			assert.Equal(t, tc.want, places.Categorize(tc.tags))
		})
	}

	t.Run("priority order when multiple tags match", func(t *testing.T) {
		// A dining amenity wins over a shop tag.
		got := places.Categorize(map[string]string{"amenity": "cafe", "shop": "bakery"})
		assert.Equal(t, models.CategoryDining, got)

		// A shop food tag wins over a recreation leisure tag.
		got = places.Categorize(map[string]string{"shop": "bakery", "leisure": "park"})
		assert.Equal(t, models.CategoryShopping, got)

		// Pharmacy wins over bus_stop.
		got = places.Categorize(map[string]string{"amenity": "pharmacy", "highway": "bus_stop"})
		assert.Equal(t, models.CategoryHealthcare, got)
	})
}

func TestCollectValidated_Cap(t *testing.T) {
	valid := func(street string) models.OverpassElement {
		return models.OverpassElement{
			Lat:  45.65,
			Lon:  13.78,
			Tags: map[string]string{"addr:street": street, "addr:city": "Trieste"},
		}
	}
	invalid := models.OverpassElement{Tags: map[string]string{"name": "Nameless"}}

	t.Run("only validated records count toward the cap", func(t *testing.T) {
		elements := []models.OverpassElement{
			invalid, valid("Via Uno"), invalid, valid("Via Due"), invalid, valid("Via Tre"),
		}

		got := places.CollectValidated(elements, 2)

		require.Len(t, got, 2)
		assert.Equal(t, "Via Uno, Trieste", got[0].Address)
		assert.Equal(t, "Via Due, Trieste", got[1].Address)
	})

	t.Run("returns fewer than the cap when few pass", func(t *testing.T) {
		got := places.CollectValidated([]models.OverpassElement{invalid, valid("Via Uno")}, 10)

		assert.Len(t, got, 1)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, places.CollectValidated(nil, 10))
	})
}
