// Package store persists the user's favorite anonymized locations in a local
// JSON file, keyed by a bounded set of icon slots.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/delocator/delocator/internal/models"
)

// ErrIconRequired is returned when a save is attempted without an icon slot.
var ErrIconRequired = errors.New("an icon slot must be selected before saving")

// SlotConflictError signals that the requested icon slot is already occupied.
// It is expected control flow, not a failure: the caller must obtain explicit
// user confirmation and then call Replace with the existing record.
type SlotConflictError struct {
	Existing models.SavedLocation // The record currently occupying the slot.
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("icon slot %q is already linked to %q", e.Existing.Icon, e.Existing.Address)
}

// Store owns the persisted collection of saved locations. All mutations
// re-read the whole file, modify the collection in memory, and persist it back
// with write-whole-then-replace semantics. The file is not designed for
// concurrent writers; a single process is assumed and mutations are serialized
// through an internal mutex.
type Store struct {
	path string       // Location of the JSON state file.
	mu   sync.Mutex   // Serializes all mutations.
	log  *slog.Logger // Logger for logging operations.
}

// NewStore creates a store backed by the JSON file at path. The file does not
// need to exist yet; absence of prior state is equivalent to an empty collection.
func NewStore(path string, log *slog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load returns the persisted collection. A missing state file yields an empty
// slice, not an error.
func (s *Store) Load() ([]models.SavedLocation, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.SavedLocation{}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var records []models.SavedLocation
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}
	if records == nil {
		records = []models.SavedLocation{}
	}

	return records, nil
}

// Save appends the record to the collection. It fails with ErrIconRequired if
// no valid icon slot was chosen, and with a *SlotConflictError if another record
// already occupies the slot; in the latter case the collection is left
// untouched and the caller must confirm with the user before calling Replace.
func (s *Store) Save(record models.SavedLocation) error {
	if err := checkIcon(record.Icon); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}

	for _, existing := range records {
		if existing.Icon == record.Icon {
			return &SlotConflictError{Existing: existing}
		}
	}

	records = append(records, record)
	if err = s.persist(records); err != nil {
		return err
	}

	s.log.Debug("Saved location", "address", record.Address, "icon", record.Icon)
	return nil
}

// Replace atomically removes old and appends replacement. This is the only
// path by which the occupant of an icon slot changes. The replacement's slot
// must not be held by any record other than old; otherwise a *SlotConflictError
// is returned and the collection is left untouched.
func (s *Store) Replace(old, replacement models.SavedLocation) error {
	if err := checkIcon(replacement.Icon); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}

	kept := make([]models.SavedLocation, 0, len(records))
	for _, existing := range records {
		if existing == old {
			continue
		}
		if existing.Icon == replacement.Icon {
			return &SlotConflictError{Existing: existing}
		}
		kept = append(kept, existing)
	}
	kept = append(kept, replacement)

	if err = s.persist(kept); err != nil {
		return err
	}

	s.log.Debug("Replaced saved location",
		"old_address", old.Address, "new_address", replacement.Address, "icon", replacement.Icon)
	return nil
}

// Delete removes every record whose address equals the given value. Addresses
// are effectively unique per save, but the operation is defined as a filter
// for robustness; deleting an unknown address is a no-op.
func (s *Store) Delete(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}

	kept := make([]models.SavedLocation, 0, len(records))
	for _, existing := range records {
		if existing.Address == address {
			continue
		}
		kept = append(kept, existing)
	}

	if err = s.persist(kept); err != nil {
		return err
	}

	s.log.Debug("Deleted saved location", "address", address, "removed", len(records)-len(kept))
	return nil
}

// checkIcon rejects mutations without an icon slot or with a slot outside the
// fixed set. Both wrap ErrIconRequired so callers treat them as one user error.
func checkIcon(icon models.IconSlot) error {
	if icon == "" {
		return ErrIconRequired
	}
	if !icon.Known() {
		return fmt.Errorf("unknown icon slot %q: %w", icon, ErrIconRequired)
	}
	return nil
}

// FindByOriginalAddress returns the saved record whose original address equals
// the given value, if any.
func (s *Store) FindByOriginalAddress(address string) (models.SavedLocation, bool, error) {
	records, err := s.Load()
	if err != nil {
		return models.SavedLocation{}, false, err
	}
	for _, record := range records {
		if record.OriginalAddress == address {
			return record, true, nil
		}
	}
	return models.SavedLocation{}, false, nil
}

// persist writes the whole collection to a temporary file in the state file's
// directory and renames it into place, so a crash mid-write never leaves a
// partially written state file behind.
func (s *Store) persist(records []models.SavedLocation) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".saved_locations-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary state file: %w", err)
	}

	if err = os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
