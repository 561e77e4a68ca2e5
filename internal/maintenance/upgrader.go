// Package maintenance contains the one-time plaintext-credential upgrade
// job and the recurring audit that watches for regressions.
package maintenance

import (
	"fmt"

	"github.com/plumeworks/plume-be/internal/credentials"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/rs/zerolog/log"
)

// CredentialStore is the persistence collaborator for maintenance runs.
// *services.UserService satisfies it.
type CredentialStore interface {
	ListCredentials() ([]services.UserCredential, error)
	UpdateCredential(id, stored string) error
}

// Prompter asks the operator for confirmation before destructive phases.
type Prompter interface {
	Confirm(message string) bool
}

// Status is the terminal outcome of an upgrade run.
type Status string

const (
	// StatusClean means the scan found no plaintext credentials.
	StatusClean Status = "clean"
	// StatusDryRun means plaintext credentials were reported, zero writes.
	StatusDryRun Status = "dry-run"
	// StatusAborted means the operator declined the confirmation gate.
	StatusAborted Status = "aborted"
	// StatusUpgraded means plaintext credentials were hashed and persisted.
	StatusUpgraded Status = "upgraded"
)

// Result summarizes an upgrade run.
type Result struct {
	Status Status `json:"status"`
	// Emails of users holding plaintext credentials, reported on dry runs.
	Affected []string `json:"affected,omitempty"`
	// Number of credentials rewritten, reported after an upgrade.
	Count int `json:"count,omitempty"`
}

// Upgrader detects plaintext-stored credentials and rewrites them through
// a one-way hash, skipping values that already carry a hash prefix so a
// credential is never hashed twice.
type Upgrader struct {
	store    CredentialStore
	prompt   Prompter
	eventSvc services.EventServiceProvider // optional; nil disables events
}

// NewUpgrader creates a new Upgrader.
func NewUpgrader(store CredentialStore, prompt Prompter, eventSvc services.EventServiceProvider) *Upgrader {
	return &Upgrader{store: store, prompt: prompt, eventSvc: eventSvc}
}

// Scan reads every user credential and returns the ones classified as
// plaintext, in storage order. Read-only; always safe to run repeatedly.
func (u *Upgrader) Scan() ([]services.UserCredential, error) {
	creds, err := u.store.ListCredentials()
	if err != nil {
		return nil, err
	}
	var toUpgrade []services.UserCredential
	for _, c := range creds {
		if credentials.Classify(c.Password) == credentials.Plaintext {
			toUpgrade = append(toUpgrade, c)
		}
	}
	return toUpgrade, nil
}

// Run executes the full scan/report/gate/upgrade protocol.
//
// The scan result is the exact set acted upon; a credential changed by a
// concurrent writer between scan and write is accepted best-effort, since
// the store offers no snapshot isolation across the two phases. A second
// run over already-upgraded data reports StatusClean and performs zero
// writes. On a persistence failure the run halts and the error names the
// affected user; credentials written before the failure stay written.
func (u *Upgrader) Run(dryRun bool) (Result, error) {
	log.Info().Msg("Scanning users for plaintext credentials...")

	toUpgrade, err := u.Scan()
	if err != nil {
		return Result{}, fmt.Errorf("credential scan: %w", err)
	}

	if len(toUpgrade) == 0 {
		log.Info().Msg("No plaintext credentials found.")
		return Result{Status: StatusClean}, nil
	}

	affected := make([]string, 0, len(toUpgrade))
	for _, c := range toUpgrade {
		affected = append(affected, c.Email)
	}
	log.Warn().Int("count", len(toUpgrade)).Strs("emails", affected).Msg("Found users with plaintext credentials")

	if dryRun {
		log.Info().Msg("Dry run complete. No changes were made.")
		return Result{Status: StatusDryRun, Affected: affected}, nil
	}

	msg := fmt.Sprintf("Proceed to hash %d credential(s)?", len(toUpgrade))
	if u.prompt == nil || !u.prompt.Confirm(msg) {
		log.Info().Msg("Aborted. No changes made.")
		return Result{Status: StatusAborted}, nil
	}

	count := 0
	for _, c := range toUpgrade {
		hashed, err := credentials.Hash(c.Password)
		if err != nil {
			return Result{Status: StatusUpgraded, Count: count}, fmt.Errorf("hashing credential for %s: %w", c.Email, err)
		}
		if err := u.store.UpdateCredential(c.ID, hashed); err != nil {
			// Halt here; earlier writes are kept, the rest is untouched
			// and will reappear on the next scan.
			return Result{Status: StatusUpgraded, Count: count}, fmt.Errorf("persisting credential for %s: %w", c.Email, err)
		}
		count++
	}

	log.Info().Int("count", count).Msg("Hashed plaintext credentials")
	if u.eventSvc != nil {
		u.eventSvc.CreateEvent("credentials.upgrade", "info", fmt.Sprintf("Upgraded %d plaintext credential(s) to hashes.", count), nil)
	}
	return Result{Status: StatusUpgraded, Count: count}, nil
}
