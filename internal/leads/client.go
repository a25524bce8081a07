package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/apiclient"
)

// Client reads and removes leads through the backend REST API.
type Client struct {
	api    *apiclient.Client
	logger *zap.Logger
}

// NewClient builds the lead client.
func NewClient(api *apiclient.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: api, logger: logger}
}

// FetchAll retrieves every lead. The backend has shipped three response
// shapes over time — a bare list, {leads: [...]}, and {data: [...]} — and all
// are accepted; anything else, including transport failure, yields an empty
// list. The caller never sees an error.
func (c *Client) FetchAll(ctx context.Context) []Lead {
	var raw json.RawMessage
	if err := c.api.Get(ctx, "/api/leads", &raw); err != nil {
		c.logger.Warn("failed to fetch leads", zap.Error(err))
		return []Lead{}
	}
	return decodeLeadList(raw, c.logger)
}

// Delete removes one lead by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/api/leads/"+url.PathEscape(id))
}

func decodeLeadList(raw json.RawMessage, logger *zap.Logger) []Lead {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var payloads []leadPayload
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			logger.Warn("lead list did not decode", zap.Error(err))
			return []Lead{}
		}
		return toLeads(payloads)
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Leads []leadPayload `json:"leads"`
			Data  []leadPayload `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			logger.Warn("lead envelope did not decode", zap.Error(err))
			return []Lead{}
		}
		if envelope.Leads != nil {
			return toLeads(envelope.Leads)
		}
		if envelope.Data != nil {
			return toLeads(envelope.Data)
		}
	}

	logger.Warn("lead response is not a recognized shape", zap.Int("bytes", len(trimmed)))
	return []Lead{}
}

func toLeads(payloads []leadPayload) []Lead {
	out := make([]Lead, len(payloads))
	for i, p := range payloads {
		out[i] = p.toLead()
	}
	return out
}
