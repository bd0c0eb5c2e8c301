package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

type wsFrame struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// WSHandler upgrades the connection and streams feed events as JSON text
// frames. Write failures end the subscription, and a read loop notices the
// client hanging up even when no events are flowing.
func WSHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
			return
		}

		id, ch := broker.Subscribe()
		slog.Debug("feed client connected", "subscriber_id", id, "remote", r.RemoteAddr)

		// Drain incoming frames. On close or error, Unsubscribe closes the
		// event channel, which ends the writer goroutine below.
		go func() {
			defer func() {
				broker.Unsubscribe(id)
				_ = conn.Close()
			}()

			for {
				if _, _, err := wsutil.ReadClientData(conn); err != nil {
					slog.Debug("feed client disconnected", "subscriber_id", id, "error", err)
					return
				}
			}
		}()

		go func() {
			defer func() {
				broker.Unsubscribe(id)
				_ = conn.Close()
			}()

			for evt := range ch {
				frame, err := json.Marshal(wsFrame{Kind: evt.Kind, Payload: json.RawMessage(evt.Payload)})
				if err != nil {
					continue
				}
				if err := wsutil.WriteServerText(conn, frame); err != nil {
					slog.Debug("feed client write failed", "subscriber_id", id, "error", err)
					return
				}
			}
		}()
	}
}
