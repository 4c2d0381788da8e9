package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/frankss230/tew-map-AFE/module/core/internal/repository/messenger"
)

var _ messenger.Messenger = (*Client)(nil)

const defaultPushURL = "https://api.line.me/v2/bot/message/push"

// Client pushes flex-style alerts through the LINE Messaging API.
type Client struct {
	httpClient  *http.Client
	pushURL     string
	accessToken string
}

func NewClient(accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		pushURL:     defaultPushURL,
		accessToken: accessToken,
	}
}

type pushRequest struct {
	To       string `json:"to"`
	Messages []any  `json:"messages"`
}

type locationMessage struct {
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type flexMessage struct {
	Type     string   `json:"type"`
	AltText  string   `json:"altText"`
	Contents flexNode `json:"contents"`
}

type flexNode map[string]any

// Push sends a location message followed by a flex bubble with the alert
// text and any escalation actions.
func (c *Client) Push(ctx context.Context, msg *messenger.PushMessage) error {
	body := flexNode{
		"type":   "box",
		"layout": "vertical",
		"contents": append([]any{
			flexNode{"type": "text", "text": msg.Title, "weight": "bold", "size": "xl", "color": "#FC0303"},
			flexNode{"type": "separator", "margin": "md"},
			flexNode{"type": "text", "text": msg.Body, "wrap": true, "margin": "md", "size": "md", "color": "#555555"},
		}, actionButtons(msg.Actions)...),
	}

	req := pushRequest{
		To: msg.Recipient,
		Messages: []any{
			locationMessage{
				Type:      "location",
				Title:     msg.Title,
				Address:   msg.AltText,
				Latitude:  msg.Latitude,
				Longitude: msg.Longitude,
			},
			flexMessage{
				Type:    "flex",
				AltText: msg.AltText,
				Contents: flexNode{
					"type": "bubble",
					"body": body,
				},
			},
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push message: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func actionButtons(actions []messenger.Action) []any {
	buttons := make([]any, 0, len(actions))
	for _, a := range actions {
		var action flexNode
		switch a.Type {
		case "postback":
			action = flexNode{"type": "postback", "label": a.Label, "data": a.Data}
		default:
			action = flexNode{"type": "uri", "label": a.Label, "uri": a.URI}
		}
		buttons = append(buttons, flexNode{
			"type":   "button",
			"style":  "primary",
			"height": "sm",
			"margin": "md",
			"action": action,
		})
	}
	return buttons
}
