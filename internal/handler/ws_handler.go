package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/middleware"
	"github.com/arenalabs/quizarena-backend/internal/model"
	ws "github.com/arenalabs/quizarena-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams session lifecycle events to admin monitor dashboards.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// MonitorStream godoc
// WS /ws/v1/admin/monitor
// Upgrades to WebSocket and forwards every session lifecycle event to the
// attached dashboard as it happens.
func (h *WSHandler) MonitorStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Admin attached to session monitor")

	reqCtx := c.Request.Context()
	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.SessionMonitorChannel())
	defer pubsub.Close()

	// The read loop only services pings and close frames; all data flows
	// server → client.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-reqCtx.Done():
			wsLog.Info().Msg("Admin disconnected from session monitor")
			return
		case <-done:
			wsLog.Info().Msg("Monitor connection closed by client")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event model.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed monitor event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.SessionEventMessage{
				Event:   ws.EventSession,
				Payload: event,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Monitor write failed, closing")
				return
			}
		}
	}
}
