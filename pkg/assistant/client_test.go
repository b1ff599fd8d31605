package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConverseSuccess(t *testing.T) {
	var got chatRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"response":        "Here are 2 matches",
				"filtered_agents": []string{"a1", "a2"},
				"timestamp":       "4:20 PM",
			},
		})
	}))
	defer upstream.Close()

	client := NewHTTPClient(upstream.URL)
	res, err := client.Converse(context.Background(), "explore", "review NDAs", "s1")

	assert.NoError(t, err)
	assert.Equal(t, "Here are 2 matches", res.Response)
	assert.Equal(t, []string{"a1", "a2"}, res.FilteredAgents)
	assert.Equal(t, "4:20 PM", res.Timestamp)

	assert.Equal(t, "explore", got.Mode)
	assert.Equal(t, "review NDAs", got.Query)
	assert.Equal(t, "s1", got.SessionID)
}

func TestConverseNoFilteredAgents(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"response": "Tell me more about your use case."},
		})
	}))
	defer upstream.Close()

	client := NewHTTPClient(upstream.URL)
	res, err := client.Converse(context.Background(), "create", "I need help", "s1")

	assert.NoError(t, err)
	assert.Empty(t, res.FilteredAgents)
}

func TestConverseUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := NewHTTPClient(upstream.URL)
	_, err := client.Converse(context.Background(), "explore", "q", "s1")

	assert.Error(t, err)
}

func TestConverseMalformedBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer upstream.Close()

	client := NewHTTPClient(upstream.URL)
	_, err := client.Converse(context.Background(), "explore", "q", "s1")

	assert.Error(t, err)
}

func TestConverseEmptyEnvelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	}))
	defer upstream.Close()

	client := NewHTTPClient(upstream.URL)
	_, err := client.Converse(context.Background(), "explore", "q", "s1")

	assert.Error(t, err)
}
