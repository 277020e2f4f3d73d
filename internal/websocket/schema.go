package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer  Action = "answer"
	ActionAdvance Action = "advance"
	ActionStop    Action = "stop"
	ActionPing    Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerAction records a selection for the current question. Either
// OptionIndex or Key (keyboard digits "1"–"4") is set.
type AnswerAction struct {
	Action      Action `json:"action"`
	OptionIndex *int   `json:"optionIndex"`
	Key         string `json:"key"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type EventName string

const (
	EventSession EventName = "session"
	EventPong    EventName = "pong"
	EventError   EventName = "error"
)

// SessionFrame wraps a controller event for the wire.
type SessionFrame struct {
	Event   EventName   `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// ErrorFrame reports a per-message failure without closing the stream.
type ErrorFrame struct {
	Event EventName `json:"event"`
	Error string    `json:"error"`
}
