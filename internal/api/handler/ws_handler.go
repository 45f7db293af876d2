package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/haidt/agent-engine/internal/api/dto"
	"github.com/haidt/agent-engine/internal/broadcast"
	"github.com/haidt/agent-engine/internal/engine"
)

// wsCommand is an inbound frame from a WebSocket client
type wsCommand struct {
	Type      string         `json:"type"`
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
}

// WSHandler upgrades connections and bridges them into the broadcast hub
type WSHandler struct {
	logger    *slog.Logger
	scheduler *engine.Scheduler
	hub       *broadcast.Hub
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a new WSHandler instance
func NewWSHandler(deps *Dependencies) *WSHandler {
	return &WSHandler{
		logger:    deps.Logger,
		scheduler: deps.Scheduler,
		hub:       deps.Hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// wsSubscriber adapts one WebSocket connection to broadcast.Subscriber.
// The mutex serializes writes; gorilla/websocket allows one concurrent writer.
type wsSubscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSubscriber) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// HandleWS handles GET /ws
// Sends a greeting frame, then streams job updates. Inbound execute frames
// submit operations just like POST /api/v1/commands.
func (h *WSHandler) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	sub := &wsSubscriber{conn: conn}
	h.hub.Subscribe(sub)
	h.logger.Info("WebSocket client connected",
		slog.String("remote", conn.RemoteAddr().String()),
	)

	defer func() {
		h.hub.Unsubscribe(sub)
		conn.Close()
		h.logger.Info("WebSocket client disconnected",
			slog.String("remote", conn.RemoteAddr().String()),
		)
	}()

	greeting, _ := json.Marshal(gin.H{
		"type":    "connected",
		"message": "agent engine ready",
	})
	if err := sub.Send(greeting); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil || cmd.Type != "execute" {
			resp, _ := json.Marshal(gin.H{
				"type":  "error",
				"error": "expected frame: {\"type\":\"execute\",\"operation\":...,\"params\":...}",
			})
			if err := sub.Send(resp); err != nil {
				return
			}
			continue
		}

		snapshot := h.scheduler.Submit(engine.Operation(cmd.Operation), cmd.Params)

		ack, _ := json.Marshal(gin.H{
			"type": "job_submitted",
			"job": dto.CommandResponse{
				JobID:  snapshot.ID,
				Status: string(snapshot.Status),
			},
		})
		if err := sub.Send(ack); err != nil {
			return
		}
	}
}
