package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pmmpclub/prep-backend/internal/middleware"
	"github.com/pmmpclub/prep-backend/internal/session"
	ws "github.com/pmmpclub/prep-backend/internal/websocket"
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

// WSHandler streams quiz session events and accepts session actions
// over a WebSocket.
type WSHandler struct {
	controller *session.Controller
	hub        *ws.Hub
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(controller *session.Controller, hub *ws.Hub, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		controller: controller,
		hub:        hub,
		log:        log.With().Str("component", "ws_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/session/stream
// Upgrades to WebSocket. Controller events (auto-advances, session
// end, load failures) are pushed as they happen; the client can send
// answer/advance/stop actions on the same connection.
func (h *WSHandler) SessionStream(c *gin.Context) {
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

	learnerID := claims.UserID

	wsLog := h.log.With().Int("learner_id", learnerID).Logger()
	wsLog.Info().Msg("Learner connected")

	events, unsubscribe := h.hub.Subscribe(learnerID)
	defer unsubscribe()

	// All frames go through one Writer: the pump below and the read
	// loop both write, and the connection tolerates only one writer.
	writer := ws.NewWriter(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if err := writer.WriteTyped(ws.SessionFrame{Event: ws.EventSession, Payload: ev}); err != nil {
				wsLog.Debug().Err(err).Msg("Event write failed, closing stream")
				conn.Close()
				return
			}
		}
	}()

	for {
		var msg ws.AnswerAction
		err := ws.ReadJSON(conn, &msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(writer, wsLog, learnerID, &msg)
		case ws.ActionAdvance:
			if _, err := h.controller.Advance(context.Background(), learnerID); err != nil {
				writer.WriteError("no question to advance past")
			}
		case ws.ActionStop:
			if _, err := h.controller.Stop(context.Background(), learnerID); err != nil {
				writer.WriteError("unable to stop the session")
			}
		case ws.ActionPing:
			writer.WriteTyped(ws.SessionFrame{Event: ws.EventPong})
		default:
			writer.WriteError("unknown action")
		}
	}

	unsubscribe()
	<-done
}

func (h *WSHandler) handleAnswer(writer *ws.Writer, wsLog zerolog.Logger, learnerID int, msg *ws.AnswerAction) {
	var (
		result *session.AnswerResult
		err    error
	)
	switch {
	case msg.OptionIndex != nil:
		result, err = h.controller.Answer(context.Background(), learnerID, *msg.OptionIndex)
	case msg.Key != "":
		result, err = h.controller.AnswerKey(context.Background(), learnerID, msg.Key)
	default:
		writer.WriteError("answer requires optionIndex or key")
		return
	}
	if err != nil {
		wsLog.Debug().Err(err).Msg("Answer rejected")
		writer.WriteError("answer rejected")
		return
	}
	// A nil result means an ignored keystroke; the event stream stays
	// quiet and the client keeps its current view.
	_ = result
}
