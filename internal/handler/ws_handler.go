package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/assessment"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/service"
	ws "github.com/skilltracker/skilltracker-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
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

// WSHandler streams live assessment sessions and the chatbot over WebSocket.
type WSHandler struct {
	manager     *assessment.Manager
	chatService *service.ChatService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(manager *assessment.Manager, chatService *service.ChatService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		manager:     manager,
		chatService: chatService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// AssessmentStream godoc
// WS /ws/v1/:kind/:language/stream
// Upgrades to WebSocket for driving a live session: every accepted action is
// answered with a full state snapshot, so the client never tracks deltas.
func (h *WSHandler) AssessmentStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kind := model.AssessmentKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assessment kind"})
		return
	}
	language := c.Param("language")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("kind", string(kind)).
		Str("language", language).
		Logger()

	ctx := context.Background()
	session, err := h.manager.Open(ctx, claims.UserID, kind, language)
	if err != nil {
		ws.WriteError(conn, err.Error())
		return
	}

	wsLog.Info().Msg("Session stream connected")
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: session.Snapshot()})

	for {
		_, raw, err := readRaw(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		var envelope ws.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			ws.WriteError(conn, "malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			var req ws.AnswerRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				ws.WriteError(conn, "malformed answer")
				continue
			}
			if err := session.Answer(ctx, req.Index, req.Option); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: session.Snapshot()})

		case ws.ActionAdvance:
			if err := session.Advance(ctx); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			h.pushState(conn, session)

		case ws.ActionRetreat:
			if err := session.Retreat(); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: session.Snapshot()})

		case ws.ActionSubmit:
			score, err := session.Submit(ctx)
			if err != nil && !isRecoverable(err) {
				ws.WriteError(conn, err.Error())
				continue
			}
			snapshot := session.Snapshot()
			ws.WriteTyped(conn, ws.CompletedResponse{Event: ws.EventCompleted, Score: score, Total: snapshot.Total})
			return

		case ws.ActionQuit:
			if err := session.Quit(ctx); err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			return

		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

		default:
			ws.WriteError(conn, "unknown action")
		}
	}
}

// pushState sends either the in-progress state or, when an advance on the
// final question submitted the session, the completed event.
func (h *WSHandler) pushState(conn *websocket.Conn, session *assessment.Session) {
	snapshot := session.Snapshot()
	if snapshot.Status == assessment.StatusCompleted {
		ws.WriteTyped(conn, ws.CompletedResponse{Event: ws.EventCompleted, Score: snapshot.Score, Total: snapshot.Total})
		return
	}
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: snapshot})
}

// ChatStream godoc
// WS /ws/v1/chat/stream
// Upgrades to WebSocket for a persistent chatbot conversation.
func (h *WSHandler) ChatStream(c *gin.Context) {
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

	wsLog := h.log.With().Int("user_id", claims.UserID).Logger()
	wsLog.Info().Msg("Chat stream connected")

	ctx := context.Background()
	for {
		var incoming ws.ChatIncoming
		if err := ws.ReadJSON(conn, &incoming); err != nil {
			wsLog.Debug().Msg("Chat connection closed")
			break
		}
		if incoming.Message == "" {
			ws.WriteError(conn, "empty message")
			continue
		}

		reply, err := h.chatService.Send(ctx, claims.UserID, incoming.Message)
		if err != nil {
			ws.WriteError(conn, err.Error())
			continue
		}
		ws.WriteTyped(conn, ws.ChatOutgoing{Event: ws.EventChatReply, Content: reply.Content})
	}
}

func readRaw(conn *websocket.Conn) (int, []byte, error) {
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	return conn.ReadMessage()
}

// isRecoverable reports whether a submit error still produced a valid score.
func isRecoverable(err error) bool {
	return errors.Is(err, assessment.ErrResultNotSaved)
}
