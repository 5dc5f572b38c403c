package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studyforge/backend/config"
)

// Illustrator produces an illustrative image reference for a summary. An
// empty reference with a nil error means the provider returned no image.
type Illustrator interface {
	Illustrate(ctx context.Context, summary string) (string, error)
}

const imagePromptLimit = 500

// GatewayIllustrator posts directly to the gateway's chat completions
// endpoint. The request carries a "modalities" field and the image comes back
// inside the assistant message, neither of which the openai client library
// models, so this call is plain HTTP.
type GatewayIllustrator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGatewayIllustrator(cfg *config.GatewayConfig) *GatewayIllustrator {
	return &GatewayIllustrator{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.ImageModel,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type imageChatRequest struct {
	Model      string             `json:"model"`
	Messages   []imageChatMessage `json:"messages"`
	Modalities []string           `json:"modalities"`
}

type imageChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type imageChatResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

func (i *GatewayIllustrator) Illustrate(ctx context.Context, summary string) (string, error) {
	prompt := buildImagePrompt(summary)

	reqBody := imageChatRequest{
		Model: i.model,
		Messages: []imageChatMessage{
			{Role: "user", Content: prompt},
		},
		Modalities: []string{"image", "text"},
	}

	reqData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/chat/completions", bytes.NewReader(reqData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+i.apiKey)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image generation failed [%d]: %s", resp.StatusCode, string(body))
	}

	var result imageChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse image response: %w", err)
	}

	if len(result.Choices) == 0 || len(result.Choices[0].Message.Images) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Images[0].ImageURL.URL, nil
}

func buildImagePrompt(summary string) string {
	excerpt := summary
	// Truncate on rune boundaries so a multi-byte character is never split
	// into invalid UTF-8.
	if runes := []rune(summary); len(runes) > imagePromptLimit {
		excerpt = string(runes[:imagePromptLimit])
	}
	return fmt.Sprintf("Create an educational infographic or diagram based on this summary: %s. Make it clear, informative, and visually engaging for students.", excerpt)
}
