package maintenance

import (
	"fmt"
	"time"

	"github.com/plumeworks/plume-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Auditor periodically re-runs the read-only credential scan and raises an
// event when plaintext values reappear, e.g. after a legacy data import.
type Auditor struct {
	upgrader *Upgrader
	eventSvc services.EventServiceProvider
	schedule cron.Schedule
	nextRun  time.Time
	ticker   *time.Ticker
	done     chan bool
}

// NewAuditor creates an auditor from a standard cron expression.
func NewAuditor(upgrader *Upgrader, eventSvc services.EventServiceProvider, cronExpr string) (*Auditor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid audit cron expression: %w", err)
	}
	return &Auditor{
		upgrader: upgrader,
		eventSvc: eventSvc,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now()),
		done:     make(chan bool),
	}, nil
}

// Run starts the auditor's ticking loop.
func (a *Auditor) Run() {
	log.Info().Time("next_run", a.nextRun).Msg("Starting credential audit loop...")
	a.ticker = time.NewTicker(1 * time.Minute)
	defer a.ticker.Stop()

	for {
		select {
		case <-a.done:
			log.Info().Msg("Stopping credential audit loop.")
			return
		case <-a.ticker.C:
			if time.Now().After(a.nextRun) {
				a.audit()
				a.nextRun = a.schedule.Next(time.Now())
			}
		}
	}
}

// Stop halts the auditor.
func (a *Auditor) Stop() {
	a.done <- true
}

// audit performs one read-only scan. It never writes credentials; fixes go
// through the interactive upgrade job.
func (a *Auditor) audit() {
	toUpgrade, err := a.upgrader.Scan()
	if err != nil {
		log.Error().Err(err).Msg("Credential audit failed")
		return
	}
	if len(toUpgrade) == 0 {
		log.Info().Msg("Credential audit clean")
		return
	}

	log.Warn().Int("count", len(toUpgrade)).Msg("Credential audit found plaintext credentials")
	a.eventSvc.CreateEvent("credentials.audit", "warn",
		fmt.Sprintf("Audit found %d user(s) with plaintext credentials. Run the hash-credentials job.", len(toUpgrade)), nil)
}
