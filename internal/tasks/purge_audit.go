package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// PurgeAuditEventsQueue is the backlite queue name of PurgeAuditEventsTask.
const PurgeAuditEventsQueue = "purge_audit_events"

// AuditPurger deletes audit events recorded before a cutoff.
type AuditPurger interface {
	PurgeBefore(cutoff time.Time) (int64, error)
}

// PurgeAuditEventsTask removes audit events older than Cutoff. The cutoff is
// fixed when the task is enqueued, so retries delete the same window.
type PurgeAuditEventsTask struct {
	Cutoff time.Time `json:"cutoff"`
}

// NewPurgeAuditEventsTask builds a task that keeps the last retention worth of events.
func NewPurgeAuditEventsTask(retention time.Duration) PurgeAuditEventsTask {
	return PurgeAuditEventsTask{Cutoff: time.Now().Add(-retention).UTC()}
}

func (t PurgeAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        PurgeAuditEventsQueue,
		MaxAttempts: 5,
		Backoff:     time.Minute,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

func purgeAuditEvents(purger AuditPurger) backlite.QueueProcessor[PurgeAuditEventsTask] {
	return func(ctx context.Context, task PurgeAuditEventsTask) error {
		if purger == nil {
			return errors.New("audit purger not configured")
		}
		if task.Cutoff.IsZero() {
			return errors.New("purge task has no cutoff")
		}

		deleted, err := purger.PurgeBefore(task.Cutoff)
		if err != nil {
			return fmt.Errorf("purge audit events: %w", err)
		}

		log.Printf("[TASK] Purged %d audit events recorded before %s", deleted, task.Cutoff.Format(time.RFC3339))
		return nil
	}
}

// NewPurgeAuditEventsQueue creates the queue that runs PurgeAuditEventsTask.
func NewPurgeAuditEventsQueue(purger AuditPurger) backlite.Queue {
	return backlite.NewQueue(purgeAuditEvents(purger))
}
