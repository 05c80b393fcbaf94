package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// handleTransfersWS streams transfer snapshots over a WebSocket. Clients get
// the full snapshot list immediately on connect, then on every push interval
// until they disconnect.
func (g *Gateway) handleTransfersWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.registry == nil {
			http.Error(w, "transfer registry unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Debug("websocket accept failed", "error", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "unexpected close")

		// CloseRead discards inbound frames and cancels the context when the
		// client goes away.
		ctx := conn.CloseRead(r.Context())

		ticker := time.NewTicker(g.config.PushInterval)
		defer ticker.Stop()

		for {
			data, err := json.Marshal(g.registry.Snapshots())
			if err != nil {
				conn.Close(websocket.StatusInternalError, "encode failed")
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}

			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case <-ticker.C:
			}
		}
	}
}
