package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/middleware"
	"github.com/stemsi/exstem-console/internal/service"
	ws "github.com/stemsi/exstem-console/internal/websocket"
)

const boardFetchTimeout = 10 * time.Second

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

// WSHandler streams the live exam board.
type WSHandler struct {
	examService *service.ExamService
	refresh     time.Duration
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler pushing a snapshot every refresh.
func NewWSHandler(examService *service.ExamService, refresh time.Duration, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		examService: examService,
		refresh:     refresh,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// ExamBoardStream godoc
// WS /ws/v1/admin/exams/board?token=...
// Pushes category counts and running exams on connect and on every refresh
// tick. Clients may send {"action":"ping"} or {"action":"refresh"}.
func (h *WSHandler) ExamBoardStream(c *gin.Context) {
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

	// Carries the forwarded upstream token.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Int("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Board client connected")

	// The reader only decodes; every write happens on this goroutine.
	actions := make(chan ws.Action, 4)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := h.pushBoard(ctx, conn, wsLog); err != nil {
		return
	}

	ticker := time.NewTicker(h.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.pushBoard(ctx, conn, wsLog); err != nil {
				return
			}
		case action := <-actions:
			var err error
			switch action {
			case ws.ActionPing:
				err = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			case ws.ActionRefresh:
				err = h.pushBoard(ctx, conn, wsLog)
			default:
				wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
				err = ws.WriteError(conn, "unknown action: "+string(action))
			}
			if err != nil {
				return
			}
		}
	}
}

// pushBoard sends a fresh snapshot. Upstream failures are reported to the
// client and keep the stream open; only write failures end it.
func (h *WSHandler) pushBoard(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger) error {
	fetchCtx, cancel := context.WithTimeout(ctx, boardFetchTimeout)
	defer cancel()

	snap, err := h.examService.Board(fetchCtx)
	if err != nil {
		wsLog.Error().Err(err).Msg("Board snapshot failed")
		return ws.WriteError(conn, "exam backend unavailable")
	}
	return ws.WriteTyped(conn, ws.BoardResponse{Event: ws.EventBoard, Data: snap})
}
