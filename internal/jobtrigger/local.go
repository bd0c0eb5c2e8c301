package jobtrigger

import (
	"context"
	"log/slog"
)

// Runner is the append-job entry point a LocalTrigger invokes.
type Runner interface {
	Run(ctx context.Context) error
}

// LocalTrigger runs the append job in-process, in a goroutine. Used for
// single-binary deployments without a message bus; failures are logged, not
// reported to the upload caller.
type LocalTrigger struct {
	runner Runner
}

// NewLocalTrigger wraps a runner.
func NewLocalTrigger(runner Runner) *LocalTrigger {
	return &LocalTrigger{runner: runner}
}

// Run starts the runner asynchronously and returns immediately.
func (t *LocalTrigger) Run(ctx context.Context) (Execution, error) {
	_ = ctx
	exec := newExecution("")

	go func() {
		if err := t.runner.Run(context.Background()); err != nil {
			slog.Error("append job failed", "execution_id", exec.ID, "error", err)
		}
	}()

	slog.Info("append job started locally", "execution_id", exec.ID)
	return exec, nil
}
