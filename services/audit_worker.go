// services/audit_worker.go - Periodic invariant audit in the background
package services

import (
	"sync"
	"time"

	"github.com/apex/log"
	"gorm.io/gorm"
)

// AuditWorker runs AuditInvariants on a ticker and logs what it finds.
type AuditWorker struct {
	db       *gorm.DB
	interval time.Duration

	stop chan struct{}
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	lastRun time.Time
	last    []Violation
}

// AuditReport is the outcome of the most recent pass.
type AuditReport struct {
	RanAt      time.Time   `json:"ran_at"`
	Violations []Violation `json:"violations"`
}

func NewAuditWorker(db *gorm.DB, interval time.Duration) *AuditWorker {
	return &AuditWorker{
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the worker. A non-positive interval leaves it idle.
func (w *AuditWorker) Start() {
	if w.interval <= 0 {
		close(w.done)
		return
	}

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.RunOnce()
			case <-w.stop:
				return
			}
		}
	}()

	log.WithField("interval", w.interval.String()).Info("invariant audit worker started")
}

// Stop ends the worker and waits for it. Safe to call more than once.
func (w *AuditWorker) Stop() {
	w.once.Do(func() { close(w.stop) })
	<-w.done
}

// RunOnce performs a single audit pass.
func (w *AuditWorker) RunOnce() []Violation {
	violations, err := AuditInvariants(w.db)
	if err != nil {
		log.WithError(err).Error("invariant audit failed")
		return nil
	}

	w.mu.Lock()
	w.lastRun = time.Now().UTC()
	w.last = violations
	w.mu.Unlock()

	for _, v := range violations {
		log.WithFields(log.Fields{
			"kind":    v.Kind,
			"team_id": v.TeamID,
			"user_id": v.UserID,
		}).Warn(v.Detail)
	}
	return violations
}

// LastReport returns the latest pass, or nil if none has run.
func (w *AuditWorker) LastReport() *AuditReport {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastRun.IsZero() {
		return nil
	}
	return &AuditReport{RanAt: w.lastRun, Violations: append([]Violation{}, w.last...)}
}
