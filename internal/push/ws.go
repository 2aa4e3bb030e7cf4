package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/ParcelBox/internal/broker/messages"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

const maxDecodeErrorsPerConn = 5

// JoinLimiter ограничивает частоту join/leave кадров на соединение.
type JoinLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type wsFrame struct {
	Action         string `json:"action"`
	TrackingNumber string `json:"trackingNumber"`
}

type wsError struct {
	Error string `json:"error"`
}

// NewWSHandler принимает websocket-соединения и транслирует join/leave кадры
// в членство в группах. limiter может быть nil (лимит выключен).
func NewWSHandler(hub *Hub, limiter JoinLimiter, joinLimitPerMinute int64) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, hub, limiter, joinLimitPerMinute)
	})
}

func handleWSConn(conn *websocket.Conn, hub *Hub, limiter JoinLimiter, joinLimit int64) {
	defer func() {
		_ = conn.Close()
	}()

	connID := uuid.NewString()
	p := hub.addPeer(connID, conn)
	defer hub.removePeer(connID)

	slog.Info("push client connected", "connId", connID)
	defer slog.Info("push client disconnected", "connId", connID)

	decoder := json.NewDecoder(conn)
	decodeErrors := 0

	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			writeWSError(p, "invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if frame.Action != "join" && frame.Action != "leave" {
			writeWSError(p, "unknown action")
			continue
		}
		if frame.TrackingNumber == "" {
			writeWSError(p, "trackingNumber is required")
			continue
		}

		if limiter != nil && joinLimit > 0 {
			ok, _, err := limiter.Allow(conn.Request().Context(), "rl:push:"+connID, joinLimit, time.Minute)
			if err == nil && !ok {
				writeWSError(p, "too many subscription changes")
				continue
			}
		}

		if frame.Action == "join" {
			hub.registry.Join(connID, messages.TrackingGroup(frame.TrackingNumber))
			slog.Info("push client joined group", "connId", connID, "trackingNumber", frame.TrackingNumber)
		} else {
			hub.registry.Leave(connID, messages.TrackingGroup(frame.TrackingNumber))
			slog.Info("push client left group", "connId", connID, "trackingNumber", frame.TrackingNumber)
		}
	}
}

func writeWSError(p *peer, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.enc.Encode(wsError{Error: msg})
}
