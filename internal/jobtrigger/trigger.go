// Package jobtrigger is the boundary to the append-job runner. Triggering is
// fire-and-forget: the upload handler gets an acknowledgment, never the
// append result, and nothing deduplicates repeated triggers.
package jobtrigger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Execution acknowledges a triggered job run.
type Execution struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject,omitempty"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

// Trigger requests one asynchronous run of the append job.
type Trigger interface {
	Run(ctx context.Context) (Execution, error)
}

func newExecution(subject string) Execution {
	return Execution{
		ID:          uuid.NewString(),
		Subject:     subject,
		TriggeredAt: time.Now().UTC(),
	}
}
