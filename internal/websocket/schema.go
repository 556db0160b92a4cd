package websocket

import "github.com/skilltracker/skilltracker-backend/internal/assessment"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer  Action = "answer"
	ActionAdvance Action = "advance"
	ActionRetreat Action = "retreat"
	ActionSubmit  Action = "submit"
	ActionQuit    Action = "quit"
	ActionPing    Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest selects an option for one question of the live session.
type AnswerRequest struct {
	Action Action `json:"action"`
	Index  int    `json:"index"`
	Option string `json:"option"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventCompleted Event = "completed"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// StateResponse carries a full session snapshot after every accepted action.
type StateResponse struct {
	Event Event            `json:"event"`
	State assessment.State `json:"state"`
}

// CompletedResponse announces the final score once the session submits.
type CompletedResponse struct {
	Event Event `json:"event"`
	Score int   `json:"score"`
	Total int   `json:"total"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// ─── Chat stream ────────────────────────────────────────────────────

// ChatIncoming is one user message on the chat stream.
type ChatIncoming struct {
	Message string `json:"message"`
}

// ChatOutgoing is one bot reply on the chat stream.
type ChatOutgoing struct {
	Event   Event  `json:"event"`
	Content string `json:"content"`
}

const EventChatReply Event = "chat_reply"
