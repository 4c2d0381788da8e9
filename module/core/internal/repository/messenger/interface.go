package messenger

import "context"

// Action is an optional button attached to a push message. Postback actions
// carry a data payload back to the bot; URI actions open a link.
type Action struct {
	Type  string `json:"type"` // "postback" or "uri"
	Label string `json:"label"`
	Data  string `json:"data,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// PushMessage is the payload contract with the chat platform: who receives
// it, the templated alert text, the dependent's position, and optional
// actions. The platform's own retry/backoff is not the engine's concern.
type PushMessage struct {
	Recipient string
	AltText   string
	Title     string
	Body      string
	Latitude  float64
	Longitude float64
	Actions   []Action
}

// Messenger performs best-effort delivery of a push message.
type Messenger interface {
	Push(ctx context.Context, msg *PushMessage) error
}
