package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritual-backend/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

type recordingServer struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (s *recordingServer) record(t *testing.T, r *http.Request) int {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		t.Errorf("decode request: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, payload)
	return len(s.bodies)
}

func withServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(h)
	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() {
		apiURL = oldURL
		server.Close()
	})
}

func TestCompleteBuildsChatRequest(t *testing.T) {
	rec := &recordingServer{}
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		rec.record(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"category\":\"TEMPESTA\"} "}}],"usage":{"total_tokens":12}}`))
	})

	client, err := NewClient("test-key", "gpt-4o-mini")
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), llm.Request{
		System:   "classifica",
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "non dormo"}},
		JSON:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"category":"TEMPESTA"}`, got)

	require.Len(t, rec.bodies, 1)
	body := rec.bodies[0]
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	assert.Contains(t, body, "temperature")
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestCompleteOmitsTemperatureForDenylist(t *testing.T) {
	rec := &recordingServer{}
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		rec.record(t, r)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ciao"}}]}`))
	})
	t.Setenv("LLM_NO_TEMP0_MODELS", "o3-mini, gpt-4o-mini")

	client, err := NewClient("test-key", "gpt-4o-mini")
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: "ciao"}}})
	require.NoError(t, err)

	require.Len(t, rec.bodies, 1)
	assert.NotContains(t, rec.bodies[0], "temperature")
	assert.NotContains(t, rec.bodies[0], "response_format")
}

func TestCompleteRetriesWithoutTemperature(t *testing.T) {
	rec := &recordingServer{}
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		call := rec.record(t, r)
		w.Header().Set("Content-Type", "application/json")
		if call == 1 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Unsupported value: 'temperature' does not support 0 with this model.","type":"invalid_request_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ciao"}}]}`))
	})

	client, err := NewClient("test-key", "gpt-4o-mini")
	require.NoError(t, err)
	got, err := client.Complete(context.Background(), llm.Request{})
	require.NoError(t, err)
	assert.Equal(t, "ciao", got)

	require.Len(t, rec.bodies, 2)
	assert.Contains(t, rec.bodies[0], "temperature")
	assert.NotContains(t, rec.bodies[1], "temperature")
}

func TestCompleteNoInfiniteRetry(t *testing.T) {
	rec := &recordingServer{}
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		rec.record(t, r)
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported value: 'temperature' does not support 0 with this model.","type":"invalid_request_error"}}`))
	})

	client, err := NewClient("test-key", "gpt-4o-mini")
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), llm.Request{})
	require.Error(t, err)
	assert.Len(t, rec.bodies, 2)
}

func TestCompleteReportsHTTPErrors(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	})

	client, err := NewClient("test-key", "gpt-4o-mini")
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), llm.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	_, err := NewClient("", "gpt-4o-mini")
	assert.Error(t, err)
	_, err = NewClient("key", " ")
	assert.Error(t, err)
}
