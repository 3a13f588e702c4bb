package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/session"
)

//**********************************************************
// pose stream
//**********************************************************

const STREAM_WRITE_TIMEOUT = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type StreamMessage struct {
	Type string         `json:"type"`
	Pose navigator.Pose `json:"pose"`
}

// Streams poses to the client, commands can be sent back as CommandRequest messages.
func HandleStreamRequest(manager *WalkManager, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := manager.GetSession()
		if !sess.HasValue() {
			WriteResponse(w, NewErrorResponse(r.URL.Path, ErrNotReady.Error()), http.StatusServiceUnavailable)
			return
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "err", err)
			return
		}
		defer ws.Close()

		id, poses := sess.Value.Subscribe()
		defer sess.Value.Unsubscribe(id)
		metrics.StreamOpened()
		defer metrics.StreamClosed()
		slog.Info("pose stream opened", "id", id.String())

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go _ReadCommands(ctx, cancel, ws, sess.Value)

		status, err := sess.Value.Status(ctx)
		if err != nil {
			return
		}
		if err := _WriteMessage(ws, StreamMessage{Type: "pose", Pose: status.Pose}); err != nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				slog.Info("pose stream closed", "id", id.String())
				return
			case pose, ok := <-poses:
				if !ok {
					return
				}
				if err := _WriteMessage(ws, StreamMessage{Type: "pose", Pose: pose}); err != nil {
					slog.Warn("failed to write pose", "err", err)
					return
				}
			}
		}
	}
}

func _ReadCommands(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, sess *session.Session) {
	defer cancel()
	for {
		var req CommandRequest
		if err := ws.ReadJSON(&req); err != nil {
			return
		}
		cmd, err := session.CommandFromString(req.Command)
		if err != nil {
			slog.Warn("unknown stream command", "command", req.Command)
			continue
		}
		if _, err := sess.Do(ctx, cmd); err != nil {
			return
		}
	}
}

func _WriteMessage(ws *websocket.Conn, msg StreamMessage) error {
	ws.SetWriteDeadline(time.Now().Add(STREAM_WRITE_TIMEOUT))
	return ws.WriteJSON(msg)
}
