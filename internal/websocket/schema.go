package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventReady  Event = "ready"
	EventAction Event = "action"
	EventPong   Event = "pong"
)

// ReadyResponse is sent once the subscription is live.
type ReadyResponse struct {
	Event Event `json:"event"`
}

// ActionResponse carries one persisted admin log entry. The entry is
// forwarded as published, without re-encoding.
type ActionResponse struct {
	Event Event           `json:"event"`
	Entry json.RawMessage `json:"entry"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
