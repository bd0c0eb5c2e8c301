package jobtrigger

import (
	"context"
	"testing"
	"time"
)

type recordingRunner struct {
	ran chan struct{}
	err error
}

func (r *recordingRunner) Run(ctx context.Context) error {
	close(r.ran)
	return r.err
}

func TestLocalTriggerRunsAsync(t *testing.T) {
	runner := &recordingRunner{ran: make(chan struct{})}
	trigger := NewLocalTrigger(runner)

	exec, err := trigger.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if exec.ID == "" {
		t.Fatal("Run() returned an empty execution ID")
	}

	select {
	case <-runner.ran:
	case <-time.After(time.Second):
		t.Fatal("runner was not invoked")
	}
}

func TestExecutionIDsAreUnique(t *testing.T) {
	a := newExecution("jobs.append")
	b := newExecution("jobs.append")
	if a.ID == b.ID {
		t.Fatalf("execution IDs collide: %q", a.ID)
	}
	if a.Subject != "jobs.append" {
		t.Fatalf("Subject = %q", a.Subject)
	}
}
