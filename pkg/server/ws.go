package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/getmockd/fireflow/pkg/userui"
)

// wsWriteTimeout bounds a single view write to a slow client.
const wsWriteTimeout = 5 * time.Second

// handleWS streams the current view and every later one as JSON text
// messages. Incoming messages are ignored. A client that falls behind
// skips intermediate views and receives the latest.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: s.skipOriginVerify,
	})
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.wsClients.Add(1)
	defer s.wsClients.Add(-1)

	ctx := conn.CloseRead(r.Context())

	updates := make(chan userui.View, 1)
	unsubscribe := s.ctrl.Subscribe(func(v userui.View) {
		for {
			select {
			case updates <- v:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	// Seed the stream unless a change already queued a fresher view.
	select {
	case updates <- s.ctrl.Snapshot():
	default:
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case v := <-updates:
			if err := writeView(ctx, conn, v); err != nil {
				s.log.Debug("websocket write failed", "error", err)
				_ = conn.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		}
	}
}

func writeView(ctx context.Context, conn *websocket.Conn, v userui.View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
