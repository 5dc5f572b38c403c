package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/studyforge/backend/config"

	"github.com/sashabaranov/go-openai"
)

// Transcriber converts raw media bytes into a plain-text transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, data []byte) (string, error)
}

// WhisperTranscriber submits the file as multipart form data (field "file")
// with a fixed model and language hint, as the provider API expects.
type WhisperTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

func NewWhisperTranscriber(cfg *config.TranscriptionConfig) *WhisperTranscriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &WhisperTranscriber{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    cfg.Model,
		language: cfg.Language,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, filename string, data []byte) (string, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   bytes.NewReader(data),
		Language: t.language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &TranscriptionError{
				StatusCode: apiErr.HTTPStatusCode,
				Body:       apiErr.Message,
				Err:        err,
			}
		}
		return "", &TranscriptionError{Err: err}
	}

	return resp.Text, nil
}
