package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/delocator/delocator/internal/geocoding"
	"github.com/delocator/delocator/internal/metrics"
	"github.com/delocator/delocator/internal/models"
	"github.com/delocator/delocator/internal/places"
	"github.com/delocator/delocator/internal/selection"
	"github.com/jonboulle/clockwork"
)

// ErrNoCandidates is returned when discovery succeeded but no validated public
// place exists near the address. The user should try a different location or a
// larger radius.
var ErrNoCandidates = errors.New("no public places with a complete address found nearby")

// ErrRequestInFlight is returned when an anonymization request arrives while
// another one is still being processed. Requests are never queued or retried
// automatically; a fresh explicit submission is required.
var ErrRequestInFlight = errors.New("an anonymization request is already in flight")

// Discoverer finds raw point-of-interest records around a coordinate.
type Discoverer interface {
	FindNearby(ctx context.Context, coords models.Coordinates, radiusMeters int) ([]models.OverpassElement, error)
}

// SavedLookup resolves a previously saved anonymization by original address.
type SavedLookup interface {
	FindByOriginalAddress(address string) (models.SavedLocation, bool, error)
}

// Anonymizer turns a real address into a nearby public place. For addresses
// the user has saved, it reproduces the saved place deterministically; for
// everything else it picks a validated candidate uniformly at random.
type Anonymizer struct {
	log          *slog.Logger       // Logger for logging service activities
	provider     geocoding.Provider // Geocoding provider for address resolution
	providerName string             // Name of the provider for metrics labeling
	discoverer   Discoverer         // Source of raw nearby place records
	saved        SavedLookup        // Saved-location lookup for deterministic re-resolution
	metrics      *metrics.Metrics   // Metrics for tracking service performance
	clock        clockwork.Clock    // Clock for measuring upstream request durations
	radiusMeters int                // Discovery radius around the geocoded address
	candidateCap int                // Maximum number of validated candidates to consider
	inFlight     atomic.Bool        // Guards against overlapping requests
}

// NewAnonymizer creates a new Anonymizer. It takes a logger, a geocoding
// provider and its name for metrics labeling, a discoverer, a saved-location
// lookup, metrics, a clock, and the discovery radius and validated-candidate
// cap to apply per request.
func NewAnonymizer(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	discoverer Discoverer,
	saved SavedLookup,
	appMetrics *metrics.Metrics,
	clock clockwork.Clock,
	radiusMeters int,
	candidateCap int,
) *Anonymizer {
	return &Anonymizer{
		log:          log,
		provider:     provider,
		providerName: providerName,
		discoverer:   discoverer,
		saved:        saved,
		metrics:      appMetrics,
		clock:        clock,
		radiusMeters: radiusMeters,
		candidateCap: candidateCap,
	}
}

// Anonymize resolves the given free-text address to one nearby public place.
// At most one request is processed at a time; overlapping calls fail with
// ErrRequestInFlight. Geocoding misses surface as geocoding.ErrNotFound and an
// empty validated candidate set as ErrNoCandidates; both are normal,
// user-correctable outcomes rather than transport failures.
func (a *Anonymizer) Anonymize(ctx context.Context, address string) (*models.AnonymizationResult, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRequestInFlight
	}
	defer a.inFlight.Store(false)

	a.metrics.InFlight.Inc()
	defer a.metrics.InFlight.Dec()

	result, err := a.anonymize(ctx, address)
	if err != nil {
		a.metrics.RequestsProcessed.WithLabelValues("failure").Inc()
		return nil, err
	}

	a.metrics.RequestsProcessed.WithLabelValues("success").Inc()
	return result, nil
}

func (a *Anonymizer) anonymize(ctx context.Context, address string) (*models.AnonymizationResult, error) {
	// A saved original address bypasses random selection entirely so the same
	// anonymized place is reproduced on every request.
	record, found, err := a.saved.FindByOriginalAddress(address)
	if err != nil {
		return nil, fmt.Errorf("failed to look up saved locations: %w", err)
	}
	if found {
		a.log.InfoContext(ctx, "Address matches a saved location", "anonymized", record.Address)
		return a.resolveSaved(ctx, record)
	}

	origin, err := a.geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	a.log.InfoContext(ctx, "Address found", "canonical", origin.Address)

	start := a.clock.Now()
	elements, err := a.discoverer.FindNearby(ctx, origin.Coordinates, a.radiusMeters)
	a.metrics.RequestSeconds.WithLabelValues("overpass").Observe(a.clock.Since(start).Seconds())
	if err != nil {
		a.metrics.APIErrors.Inc()
		return nil, fmt.Errorf("failed to fetch nearby places: %w", err)
	}

	candidates := places.CollectValidated(elements, a.candidateCap)
	a.metrics.CandidatesValidated.Observe(float64(len(candidates)))
	a.log.DebugContext(ctx, "Validated nearby candidates",
		"raw", len(elements), "validated", len(candidates))

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	selected, err := selection.Pick(candidates)
	if err != nil {
		return nil, err
	}

	return &models.AnonymizationResult{
		Label:               selected.Address,
		Category:            selected.Category,
		Coordinates:         selected.Coordinates,
		OriginalCoordinates: origin.Coordinates,
	}, nil
}

// resolveSaved re-resolves a saved record through the geocoding provider so
// both the anonymized place and the original address get fresh coordinates.
func (a *Anonymizer) resolveSaved(
	ctx context.Context,
	record models.SavedLocation,
) (*models.AnonymizationResult, error) {
	anonymized, err := a.geocode(ctx, record.Address)
	if err != nil {
		return nil, err
	}

	original, err := a.geocode(ctx, record.OriginalAddress)
	if err != nil {
		return nil, err
	}

	return &models.AnonymizationResult{
		Label:               record.Address,
		Category:            models.CategoryOther,
		Coordinates:         anonymized.Coordinates,
		OriginalCoordinates: original.Coordinates,
		FromSaved:           true,
	}, nil
}

func (a *Anonymizer) geocode(ctx context.Context, address string) (*models.Location, error) {
	start := a.clock.Now()
	location, err := a.provider.Geocode(ctx, address)
	a.metrics.RequestSeconds.WithLabelValues(a.providerName).Observe(a.clock.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, geocoding.ErrNotFound) {
			a.metrics.APIErrors.Inc()
		}
		return nil, err
	}
	return location, nil
}
