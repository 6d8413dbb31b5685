package geocoding

import (
	"context"
	"errors"

	"github.com/delocator/delocator/internal/models"
)

// ErrNotFound is returned when the upstream service has no match for the
// queried address. It is a normal outcome, distinct from transport failures,
// and callers are expected to present it to the user as such.
var ErrNotFound = errors.New("no location found for address")

// Provider is an interface that defines a method for geocoding an address.
// The Geocode method takes a context and a free-text address as input and
// returns the canonical address together with its coordinates, or ErrNotFound
// when the upstream service yields no match.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}
