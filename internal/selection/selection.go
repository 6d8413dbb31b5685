// Package selection picks one anonymized place from a validated candidate set.
package selection

import (
	"errors"
	"math/rand/v2"

	"github.com/delocator/delocator/internal/models"
)

// ErrEmptyCandidateSet indicates selection was invoked without any validated
// candidates. Callers must surface "no places found" before selecting, so
// observing this error is an internal-consistency failure, not a user error.
var ErrEmptyCandidateSet = errors.New("selection requires at least one validated candidate")

// Pick returns one candidate chosen uniformly at random. Repeated calls with
// the same candidate set may return different results; this non-determinism is
// deliberate, so an unsaved address does not always anonymize to the same place.
func Pick(candidates []models.ValidatedPlace) (models.ValidatedPlace, error) {
	if len(candidates) == 0 {
		return models.ValidatedPlace{}, ErrEmptyCandidateSet
	}
	return candidates[rand.IntN(len(candidates))], nil
}
