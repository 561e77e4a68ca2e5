package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/plumeworks/plume-be/internal/maintenance"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MaintenanceHandler exposes the credential-upgrade job over HTTP for
// operators who cannot reach the hash-credentials binary.
type MaintenanceHandler struct {
	store    maintenance.CredentialStore
	eventSvc services.EventServiceProvider
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(store maintenance.CredentialStore, eventSvc services.EventServiceProvider) *MaintenanceHandler {
	return &MaintenanceHandler{store: store, eventSvc: eventSvc}
}

// MaintenancePayload defines the structure for upgrade-run requests.
// There is no interactive prompt over HTTP, so a non-dry-run request must
// set confirm explicitly or the run reports "aborted".
type MaintenancePayload struct {
	DryRun  bool `json:"dryRun"`
	Confirm bool `json:"confirm"`
}

// staticPrompter answers the confirmation gate with a pre-supplied choice.
type staticPrompter bool

func (p staticPrompter) Confirm(string) bool { return bool(p) }

// UpgradeCredentials runs the plaintext-credential upgrade job.
func (h *MaintenanceHandler) UpgradeCredentials(w http.ResponseWriter, r *http.Request) {
	var payload MaintenancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job := maintenance.NewUpgrader(h.store, staticPrompter(payload.Confirm), h.eventSvc)
	result, err := job.Run(payload.DryRun)
	if err != nil {
		log.Error().Err(err).Msg("Credential upgrade run failed")
		http.Error(w, "Credential upgrade failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
