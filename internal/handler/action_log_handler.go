package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/middleware"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/response"
	"github.com/stemsi/classroom-backend/internal/service"
	ws "github.com/stemsi/classroom-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
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

// ActionLogHandler serves the admin action log, paged and live.
type ActionLogHandler struct {
	actionLogs *service.ActionLogService
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewActionLogHandler creates a new ActionLogHandler.
func NewActionLogHandler(actionLogs *service.ActionLogService, log zerolog.Logger, allowedOrigins []string) *ActionLogHandler {
	return &ActionLogHandler{
		actionLogs: actionLogs,
		log:        log.With().Str("component", "action_log_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
	}
}

// ListActions godoc
// GET /api/v1/admin/actions?user_id=&page=&per_page=
// Newest first.
func (h *ActionLogHandler) ListActions(c *gin.Context) {
	userID, ok := queryInt(c, "user_id")
	if !ok {
		return
	}

	entries, pagination, err := h.actionLogs.List(c.Request.Context(), userID, listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"actions": entries}, pagination)
}

// StreamActions godoc
// WS /ws/v1/admin/actions/stream?token=
// Pushes every admin log entry as soon as the worker persists it.
func (h *ActionLogHandler) StreamActions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if !claims.Has(model.PermissionActionsRead) {
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", claims.UserID).Logger()

	ctx := c.Request.Context()
	pubsub := h.actionLogs.Subscribe(ctx)
	defer pubsub.Close()

	// Wait for the subscription before telling the client it is live.
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "stream unavailable")
		return
	}
	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady}); err != nil {
		return
	}

	wsLog.Info().Msg("Admin attached to action stream")

	// The reader only notices pings and disconnects. gorilla allows a single
	// writer, so ping replies are handed to the loop below.
	closed := make(chan struct{})
	pongs := make(chan struct{}, 1)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	})
	go func() {
		defer close(closed)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pongs <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-closed:
			wsLog.Debug().Msg("Connection closed")
			return

		case <-ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !json.Valid([]byte(msg.Payload)) {
				continue
			}
			if err := ws.WriteTyped(conn, ws.ActionResponse{
				Event: ws.EventAction,
				Entry: json.RawMessage(msg.Payload),
			}); err != nil {
				return
			}

		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}
