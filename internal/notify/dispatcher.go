// Package notify maps saved locations to OS notification actions and routes
// activated actions back to the address they carry.
package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/delocator/delocator/internal/models"
)

// ErrUnknownAction is returned when an activated action identifier does not
// match the currently published table.
var ErrUnknownAction = errors.New("unknown notification action")

// Action is one actionable notification item. ID is stable for a given
// position in the saved collection; Label comes from the record's icon slot.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Address string `json:"address"`
}

// Clipboard is the write-only clipboard boundary an activated action copies to.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Dispatcher publishes one action per saved record. Identifiers encode the
// record's position, so the whole table must be rebuilt via Refresh after
// every store mutation; indices shift on add, delete, and overwrite, and a
// stale table would silently copy the wrong address.
type Dispatcher struct {
	namespace string
	clip      Clipboard
	log       *slog.Logger

	mu      sync.RWMutex
	actions []Action
	byID    map[string]string
}

// NewDispatcher creates a dispatcher publishing identifiers under the given
// application namespace.
func NewDispatcher(namespace string, clip Clipboard, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		namespace: namespace,
		clip:      clip,
		log:       log,
		byID:      map[string]string{},
	}
}

// Refresh derives the full action table from the current saved collection,
// replacing whatever was published before. Incremental updates are deliberately
// not supported.
func (d *Dispatcher) Refresh(records []models.SavedLocation) {
	actions := make([]Action, 0, len(records))
	byID := make(map[string]string, len(records))

	for index, record := range records {
		id := fmt.Sprintf("%s.copy_address_%d", d.namespace, index)
		actions = append(actions, Action{
			ID:      id,
			Label:   record.Icon.Label(),
			Address: record.Address,
		})
		byID[id] = record.Address
	}

	d.mu.Lock()
	d.actions = actions
	d.byID = byID
	d.mu.Unlock()

	d.log.Debug("Notification actions republished", "count", len(actions))
}

// Actions returns a snapshot of the currently published actions.
func (d *Dispatcher) Actions() []Action {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snapshot := make([]Action, len(d.actions))
	copy(snapshot, d.actions)
	return snapshot
}

// Resolve maps an action identifier back to the address it carries.
func (d *Dispatcher) Resolve(actionID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	address, ok := d.byID[actionID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}
	return address, nil
}

// Activate resolves the action and copies its address to the clipboard,
// returning the copied address.
func (d *Dispatcher) Activate(actionID string) (string, error) {
	address, err := d.Resolve(actionID)
	if err != nil {
		return "", err
	}
	if err = d.clip.WriteAll(address); err != nil {
		return "", fmt.Errorf("failed to copy address to clipboard: %w", err)
	}

	d.log.Debug("Address copied from notification action", "action", actionID)
	return address, nil
}
