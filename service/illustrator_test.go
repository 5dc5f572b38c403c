package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayIllustratorReturnsImageURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req imageChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"image", "text"}, req.Modalities)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "educational infographic")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"images":[{"image_url":{"url":"data:image/png;base64,abc"}}]}}]}`))
	}))
	defer server.Close()

	illustrator := NewGatewayIllustrator(gatewayConfig(server.URL))
	url, err := illustrator.Illustrate(context.Background(), "Photosynthesis summary")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,abc", url)
}

func TestGatewayIllustratorNoImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"no image this time"}}]}`))
	}))
	defer server.Close()

	illustrator := NewGatewayIllustrator(gatewayConfig(server.URL))
	url, err := illustrator.Illustrate(context.Background(), "summary")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestGatewayIllustratorProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	illustrator := NewGatewayIllustrator(gatewayConfig(server.URL))
	_, err := illustrator.Illustrate(context.Background(), "summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestBuildImagePromptTruncatesSummary(t *testing.T) {
	long := strings.Repeat("a", 900)
	prompt := buildImagePrompt(long)
	assert.Contains(t, prompt, strings.Repeat("a", imagePromptLimit))
	assert.NotContains(t, prompt, strings.Repeat("a", imagePromptLimit+1))
}

func TestBuildImagePromptKeepsMultibyteRunesIntact(t *testing.T) {
	long := strings.Repeat("光", 900)
	prompt := buildImagePrompt(long)

	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, strings.Repeat("光", imagePromptLimit))
	assert.NotContains(t, prompt, strings.Repeat("光", imagePromptLimit+1))
	assert.NotContains(t, prompt, string(utf8.RuneError))
}
