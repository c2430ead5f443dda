package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hexbattle/internal/combat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// liveFrame is one server message of a live session.
type liveFrame struct {
	Type     string            `json:"type"`
	Snapshot *combat.Snapshot  `json:"snapshot,omitempty"`
	Result   *combat.SimResult `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleLive runs one battle per connection in real time. The client sends
// a battleRequest first; the server answers with a snapshot frame per tick
// and a closing result frame.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	var req battleRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.log.Debug("live session without a board", zap.Error(err))
		return
	}
	b, err := s.newBattle(req, nil)
	if err != nil {
		_ = conn.WriteJSON(liveFrame{Type: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// The client has nothing more to say; a read error means it left.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	meta := b.Meta(req.Seed)
	err = combat.RunRealtime(ctx, b, s.liveMaxMS, func(b *combat.Battle) {
		snap := b.Snapshot()
		if err := conn.WriteJSON(liveFrame{Type: "snapshot", Snapshot: &snap}); err != nil {
			cancel()
		}
	})
	if errors.Is(err, context.Canceled) {
		s.log.Debug("live session closed early", zap.String("board", req.Board.Name))
		return
	}
	res := b.Result(meta)
	if err := conn.WriteJSON(liveFrame{Type: "result", Result: &res}); err != nil {
		s.log.Debug("live result not delivered", zap.Error(err))
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle over"))
}
