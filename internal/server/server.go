// Package server exposes the anonymization engine over HTTP. It is a thin
// boundary: handlers decode plain data, call into the engine, and render
// whatever it returns.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/delocator/delocator/internal/geocoding"
	"github.com/delocator/delocator/internal/models"
	"github.com/delocator/delocator/internal/notify"
	"github.com/delocator/delocator/internal/service"
	"github.com/delocator/delocator/internal/store"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Anonymizer is the engine entry point the server calls for each request.
type Anonymizer interface {
	Anonymize(ctx context.Context, address string) (*models.AnonymizationResult, error)
}

// Handlers contains the dependencies for handling HTTP requests.
type Handlers struct {
	anonymizer Anonymizer
	store      *store.Store
	dispatcher *notify.Dispatcher
	log        *slog.Logger
}

// NewHandlers creates a new Handlers instance with the given engine components.
func NewHandlers(
	anonymizer Anonymizer,
	locationStore *store.Store,
	dispatcher *notify.Dispatcher,
	log *slog.Logger,
) *Handlers {
	return &Handlers{
		anonymizer: anonymizer,
		store:      locationStore,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Router builds the HTTP route table, including health and metrics endpoints.
func (h *Handlers) Router(reg *prometheus.Registry) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/anonymize", h.Anonymize).Methods(http.MethodPost)
	router.HandleFunc("/saved", h.ListSaved).Methods(http.MethodGet)
	router.HandleFunc("/saved", h.SaveLocation).Methods(http.MethodPost)
	router.HandleFunc("/saved/replace", h.ReplaceLocation).Methods(http.MethodPost)
	router.HandleFunc("/saved", h.DeleteLocation).Methods(http.MethodDelete)
	router.HandleFunc("/actions", h.ListActions).Methods(http.MethodGet)
	router.HandleFunc("/actions/{id}/activate", h.ActivateAction).Methods(http.MethodPost)

	router.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("OK"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return router
}

// anonymizeRequest is the body of POST /anonymize.
type anonymizeRequest struct {
	Address string `json:"address"`
}

// Anonymize handles POST /anonymize: it resolves the submitted address to one
// nearby public place. User-correctable outcomes map to 4xx statuses; upstream
// transport failures map to 502.
func (h *Handlers) Anonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Address == "" {
		http.Error(w, "Address is required", http.StatusBadRequest)
		return
	}

	result, err := h.anonymizer.Anonymize(r.Context(), req.Address)
	if err != nil {
		h.writeAnonymizeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) writeAnonymizeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, geocoding.ErrNotFound):
		http.Error(w, "No address found for your input. Please try a different search term.",
			http.StatusNotFound)
	case errors.Is(err, service.ErrNoCandidates):
		http.Error(w, "No public places found near this address. Please try a different location.",
			http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrRequestInFlight):
		http.Error(w, "A request is already being processed.", http.StatusConflict)
	default:
		h.log.ErrorContext(r.Context(), "Anonymization failed", "error", err)
		http.Error(w, "Failed to reach upstream location services.", http.StatusBadGateway)
	}
}

// ListSaved handles GET /saved and returns a read snapshot of the collection.
func (h *Handlers) ListSaved(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Load()
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to load saved locations", "error", err)
		http.Error(w, "Failed to load saved locations", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

// slotConflictResponse is returned with 409 when the requested icon slot is
// already occupied. The caller must confirm with the user and then invoke
// POST /saved/replace.
type slotConflictResponse struct {
	Error    string               `json:"error"`
	Existing models.SavedLocation `json:"existing"`
}

// SaveLocation handles POST /saved. Saving into an occupied icon slot is never
// an implicit overwrite; it yields 409 with the existing record so the caller
// can ask for confirmation.
func (h *Handlers) SaveLocation(w http.ResponseWriter, r *http.Request) {
	var record models.SavedLocation
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.Save(record); err != nil {
		var conflict *store.SlotConflictError
		switch {
		case errors.Is(err, store.ErrIconRequired):
			http.Error(w, "Please select an icon before saving!", http.StatusBadRequest)
		case errors.As(err, &conflict):
			h.writeJSON(w, http.StatusConflict, slotConflictResponse{
				Error:    conflict.Error(),
				Existing: conflict.Existing,
			})
		default:
			h.log.ErrorContext(r.Context(), "Failed to save location", "error", err)
			http.Error(w, "Failed to save location", http.StatusInternalServerError)
		}
		return
	}

	h.refreshActions(r.Context())
	h.writeJSON(w, http.StatusCreated, record)
}

// replaceRequest is the body of POST /saved/replace.
type replaceRequest struct {
	Old models.SavedLocation `json:"old"`
	New models.SavedLocation `json:"new"`
}

// ReplaceLocation handles POST /saved/replace, the only path by which an icon
// slot's occupant changes.
func (h *Handlers) ReplaceLocation(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.Replace(req.Old, req.New); err != nil {
		var conflict *store.SlotConflictError
		switch {
		case errors.Is(err, store.ErrIconRequired):
			http.Error(w, "Please select an icon before saving!", http.StatusBadRequest)
		case errors.As(err, &conflict):
			h.writeJSON(w, http.StatusConflict, slotConflictResponse{
				Error:    conflict.Error(),
				Existing: conflict.Existing,
			})
		default:
			h.log.ErrorContext(r.Context(), "Failed to replace location", "error", err)
			http.Error(w, "Failed to replace location", http.StatusInternalServerError)
		}
		return
	}

	h.refreshActions(r.Context())
	h.writeJSON(w, http.StatusOK, req.New)
}

// DeleteLocation handles DELETE /saved?address=... . Deleting an address that
// is not saved is a no-op, not an error.
func (h *Handlers) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		http.Error(w, "Address is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(address); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to delete location", "error", err)
		http.Error(w, "Failed to delete location", http.StatusInternalServerError)
		return
	}

	h.refreshActions(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ListActions handles GET /actions and returns the currently published
// notification action table.
func (h *Handlers) ListActions(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.dispatcher.Actions())
}

// activateResponse is the body returned by a successful action activation.
type activateResponse struct {
	Address string `json:"address"`
}

// ActivateAction handles POST /actions/{id}/activate: it resolves the action
// back to its address and copies it to the clipboard.
func (h *Handlers) ActivateAction(w http.ResponseWriter, r *http.Request) {
	actionID := mux.Vars(r)["id"]

	address, err := h.dispatcher.Activate(actionID)
	if err != nil {
		if errors.Is(err, notify.ErrUnknownAction) {
			http.Error(w, "Unknown action", http.StatusNotFound)
			return
		}
		h.log.ErrorContext(r.Context(), "Failed to activate action", "action", actionID, "error", err)
		http.Error(w, "Failed to activate action", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, activateResponse{Address: address})
}

// refreshActions republishes the whole notification action table from the
// current collection. It runs after every store mutation; indices shift, so a
// partial update is never attempted.
func (h *Handlers) refreshActions(ctx context.Context) {
	records, err := h.store.Load()
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to reload saved locations for action refresh", "error", err)
		return
	}
	h.dispatcher.Refresh(records)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to write reply", "error", err)
	}
}
