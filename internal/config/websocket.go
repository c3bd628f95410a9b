package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader     websocket.Upgrader
	WriteTimeout time.Duration
	// ReadLimit caps one command batch in bytes.
	ReadLimit int64
}

func NewWebSocket() (*WebSocket, error) {
	ws := &WebSocket{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// sessions are guarded by their token, not by origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		WriteTimeout: 10 * time.Second,
		ReadLimit:    64 << 10,
	}
	return ws, nil
}
