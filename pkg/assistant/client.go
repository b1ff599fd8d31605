package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is the useful part of the conversational backend's reply.
// FilteredAgents is only populated when the backend found catalog matches;
// Timestamp is optional and falls back to the client clock upstream.
type Response struct {
	Response       string   `json:"response"`
	FilteredAgents []string `json:"filtered_agents,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
}

// Client is the chat transport: one request/response call per round-trip.
// Any network failure or malformed payload surfaces as a plain error;
// callers own the user-facing fallback.
type Client interface {
	Converse(ctx context.Context, mode, query, sessionID string) (*Response, error)
}

type chatRequest struct {
	Mode      string `json:"mode"`
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type chatEnvelope struct {
	Data *Response `json:"data"`
}

// HTTPClient talks to the remote conversational endpoint.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HTTPClient) Converse(ctx context.Context, mode, query, sessionID string) (*Response, error) {
	payload := chatRequest{
		Mode:      mode,
		Query:     query,
		SessionID: sessionID,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat",
		bytes.NewBuffer(payloadJson),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

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

	var envelope chatEnvelope
	if err := json.Unmarshal(resBody, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil || envelope.Data.Response == "" {
		return nil, fmt.Errorf("malformed chat response: %s", string(resBody))
	}

	return envelope.Data, nil
}
