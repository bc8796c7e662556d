package realtime

type SSEEvent string

const (
	SSEEventConnected        SSEEvent = "connected"
	SSEEventUserMessage      SSEEvent = "user_message"
	SSEEventAssistantMessage SSEEvent = "assistant_message"
)

// SSEMessage is one event routed to every subscriber of Channel. Chat events
// use the assistant session id as the channel.
type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
