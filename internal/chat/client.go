package chat

import (
	"context"
	"encoding/json"

	"github.com/inmo24x7/backoffice/internal/apiclient"
)

// Reply is the backend's answer to one simulator message. Items of Messages
// are kept raw because the backend mixes plain strings and objects.
type Reply struct {
	Messages []json.RawMessage `json:"messages"`
	Handoff  bool              `json:"handoff"`
}

// Messenger sends one user message to the chat agent.
type Messenger interface {
	SendMessage(ctx context.Context, userID, text string) (Reply, error)
}

// Client is the REST messenger against the chatbot backend.
type Client struct {
	api *apiclient.Client
}

// NewClient builds the messenger client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

type sendPayload struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// SendMessage posts the message and decodes the structured reply.
func (c *Client) SendMessage(ctx context.Context, userID, text string) (Reply, error) {
	var reply Reply
	err := c.api.Post(ctx, "/message", sendPayload{UserID: userID, Text: text}, &reply)
	return reply, err
}
