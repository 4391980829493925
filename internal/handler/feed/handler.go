package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
	model "github.com/zhouzirui/staffbook/backend/internal/model/employee"
	"github.com/zhouzirui/staffbook/backend/internal/service/employee"
	feedService "github.com/zhouzirui/staffbook/backend/internal/service/feed"
	"github.com/zhouzirui/staffbook/backend/pkg/utils"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

var logger = logging.For("feed")

// Handler streams store change events over websocket and SSE.
type Handler struct {
	store    employee.Store
	hub      *feedService.Hub
	upgrader websocket.Upgrader
}

// New creates a feed handler. The snapshot sent on connect comes from store.
func New(store employee.Store, hub *feedService.Hub) *Handler {
	return &Handler{
		store: store,
		hub:   hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the feed endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/feed", h.handleWebSocket)
	r.Get("/employees/stream", h.handleSSE)
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the snapshot: a concurrent mutation may arrive twice
	// but is never missed.
	events, cancel := h.hub.Subscribe()
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The feed is one-way; the read loop only services control frames and
	// notices when the client goes away.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("websocket read error", "err", err)
				}
				return
			}
		}
	}()

	if err := h.send(conn, "snapshot", h.store.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := h.send(conn, string(ev.Type), ev.Employee); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msgType string, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	msg := outgoingMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		logger.Debug("websocket write failed", "type", msgType, "err", err)
		return err
	}
	return nil
}

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	events, cancel := h.hub.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if err := utils.SendSSEEvent(w, flusher, "snapshot", h.store.Snapshot()); err != nil {
		logger.Debug("sse write failed", "err", err)
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sendEvent(w, flusher, ev); err != nil {
				logger.Debug("sse write failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keepalive"); err != nil {
				return
			}
		}
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, ev model.Event) error {
	return utils.SendSSEEvent(w, flusher, string(ev.Type), ev.Employee)
}
