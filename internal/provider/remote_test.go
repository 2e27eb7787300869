package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefe-learning/curriculum-ai/pkg/config"
)

func remoteTestConfig(apiKey string) config.RemoteProviderConfig {
	return config.RemoteProviderConfig{
		APIKey:      apiKey,
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   256,
	}
}

func chatCompletionStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`))
	}))
}

func TestRemote_InvokeUsesPreparedPrompt(t *testing.T) {
	srv := chatCompletionStub(t, "Great question! Algebra is about patterns.")
	defer srv.Close()

	cfg := remoteTestConfig("test-key")
	cfg.BaseURL = srv.URL
	p := NewEducational(cfg)
	require.True(t, p.Available())

	res, err := p.Invoke(context.Background(), Request{
		Question: "what is algebra",
		Prompt:   "prepared conversational prompt",
	})
	require.NoError(t, err)

	assert.Equal(t, "Great question! Algebra is about patterns.", res.Answer)
	assert.Equal(t, 0.95, res.Confidence)
	assert.Equal(t, "conversational_educational", res.ResponseType)
	assert.Equal(t, "Google Gemini (Conversational)", res.Service)
}

func TestRemote_InvokeBuildsDocumentPrompt(t *testing.T) {
	srv := chatCompletionStub(t, "ok")
	defer srv.Close()

	cfg := remoteTestConfig("test-key")
	cfg.BaseURL = srv.URL
	p := NewCreative(cfg)

	res, err := p.Invoke(context.Background(), Request{
		Question: "write me an example",
		Chunks:   []string{"Term 1: Algebra basics"},
	})
	require.NoError(t, err)

	// Without a prepared prompt the non-conversational shape is reported.
	assert.Equal(t, "creative_interactive", res.ResponseType)
	assert.Equal(t, "OpenAI GPT", res.Service)
	assert.Equal(t, 0.90, res.Confidence)
}

func TestRemote_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := remoteTestConfig("test-key")
	cfg.BaseURL = srv.URL
	p := NewCreative(cfg)

	_, err := p.Invoke(context.Background(), Request{Question: "q", Prompt: "p"})
	assert.Error(t, err)
}
