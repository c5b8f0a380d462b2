package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/config"
)

func newTestClient(baseURL string) Client {
	cfg := &config.Config{
		ModelAPIURL:     baseURL,
		ModelAPITimeout: 2 * time.Second,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestParseCV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/parse", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cv.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("raw cv bytes"), content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Alice","skills":["go","sql"]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	parsed, err := client.ParseCV(context.Background(), "cv.pdf", []byte("raw cv bytes"))
	require.NoError(t, err)

	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed, &profile))
	assert.Equal(t, "Alice", profile["name"])
}

func TestParseCVUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ParseCV(context.Background(), "cv.pdf", []byte("raw"))
	require.Error(t, err)
}

func TestSimulate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/simulate", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Tell me about yourself.", body["prompt"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Let's start with your background."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Simulate(context.Background(), "Tell me about yourself.")
	require.NoError(t, err)
	assert.Equal(t, "Let's start with your background.", reply)
}

func TestSimulateMissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"something_else":"value"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Simulate(context.Background(), "prompt")
	require.Error(t, err)
}

func TestSimulateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Simulate(context.Background(), "prompt")
	require.Error(t, err)
}

func TestSimulateTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"response":"too late"}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		ModelAPIURL:     server.URL,
		ModelAPITimeout: 50 * time.Millisecond,
	}
	client := NewClient(cfg, zap.NewNop())

	_, err := client.Simulate(context.Background(), "prompt")
	require.Error(t, err)
}
