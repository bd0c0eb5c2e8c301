package jobtrigger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// RunRequest is the message published to the job subject.
type RunRequest struct {
	ExecutionID string    `json:"execution_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NATSTrigger publishes run requests to a NATS subject consumed by the
// append-job worker.
type NATSTrigger struct {
	conn    *nats.Conn
	subject string
}

// ConnectNATS dials the NATS server with the reconnect policy used across
// the deployment and returns a trigger bound to subject.
func ConnectNATS(url, token, subject string) (*NATSTrigger, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSTrigger{conn: nc, subject: subject}, nil
}

// Run publishes a run request and returns the acknowledgment. The append
// result is never awaited.
func (t *NATSTrigger) Run(ctx context.Context) (Execution, error) {
	_ = ctx
	exec := newExecution(t.subject)

	payload, err := json.Marshal(RunRequest{ExecutionID: exec.ID, RequestedAt: exec.TriggeredAt})
	if err != nil {
		return Execution{}, fmt.Errorf("marshal run request: %w", err)
	}
	if err := t.conn.Publish(t.subject, payload); err != nil {
		return Execution{}, fmt.Errorf("publish %s: %w", t.subject, err)
	}

	slog.Info("append job triggered", "subject", t.subject, "execution_id", exec.ID)
	return exec, nil
}

// Subscribe consumes run requests from the subject and invokes runner once
// per message. Malformed messages still trigger a run; the message only
// carries tracing fields.
func (t *NATSTrigger) Subscribe(runner Runner) error {
	_, err := t.conn.Subscribe(t.subject, func(msg *nats.Msg) {
		var req RunRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Warn("malformed run request", "subject", t.subject, "error", err)
		}

		slog.Info("run request received", "subject", t.subject, "execution_id", req.ExecutionID)
		if err := runner.Run(context.Background()); err != nil {
			slog.Error("append job failed", "execution_id", req.ExecutionID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", t.subject, err)
	}
	return nil
}

// Close drains the connection.
func (t *NATSTrigger) Close() {
	t.conn.Close()
}
