package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

// Lookup resolves one agent identifier into a full catalog record.
type Lookup interface {
	GetAgent(ctx context.Context, id string) (*store.AgentCard, error)
}

type agentEnvelope struct {
	Data *store.AgentCard `json:"data"`
}

// HTTPLookup fetches agent records from the remote catalog endpoint.
type HTTPLookup struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPLookup(baseURL string) *HTTPLookup {
	return &HTTPLookup{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPLookup) GetAgent(ctx context.Context, id string) (*store.AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/agents/"+id, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var envelope agentEnvelope
	if err := json.Unmarshal(resBody, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("empty agent record for id %s", id)
	}

	return envelope.Data, nil
}
