package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, status int, content string, seen *capturedRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
			return
		}
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_SendsJSONObjectRequest(t *testing.T) {
	var seen capturedRequest
	var auth string
	srv := chatServer(t, http.StatusOK, `{"match_score": 72}`, &seen, &auth)

	client := New(Config{
		APIKey:      "secret",
		BaseURL:     srv.URL + "/v1/",
		Model:       "gemini-2.5-flash",
		Temperature: DefaultTemperature,
	})

	out, err := client.Complete(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, `{"match_score": 72}`, out)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "gemini-2.5-flash", seen.Model)
	assert.InDelta(t, 0.3, seen.Temperature, 1e-6)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "system text", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "user text", seen.Messages[1].Content)
}

func TestComplete_ReturnsContentVerbatim(t *testing.T) {
	raw := "  not json at all \n"
	srv := chatServer(t, http.StatusOK, raw, nil, nil)

	out, err := New(Config{APIKey: "k", BaseURL: srv.URL + "/v1"}).Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestComplete_ServiceError(t *testing.T) {
	srv := chatServer(t, http.StatusUnauthorized, "", nil, nil)

	_, err := New(Config{BaseURL: srv.URL + "/v1"}).Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := New(Config{APIKey: "k", BaseURL: srv.URL + "/v1", Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestComplete_RejectsEmptyPrompt(t *testing.T) {
	_, err := New(Config{}).Complete(context.Background(), "s", "")
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{Temperature: -1})
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, float32(0), c.Temperature())
}
