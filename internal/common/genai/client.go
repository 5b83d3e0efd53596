// internal/common/genai/client.go

// Package genai talks to an OpenAI-compatible API for embeddings and chat
// completions. All recommendation workers that need model access go through
// this client.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"autotrader-workers/internal/common/config"
	"autotrader-workers/internal/common/errors"
	"autotrader-workers/internal/common/logger"
)

// Embedder produces a dense vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ChatMessage is a single turn in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client struct {
	cfg    config.GenAIConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.GenAIConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			// No client-level timeout, deadlines come from the request context
		},
		logger: log.WithFields(map[string]interface{}{
			"component": "genai",
		}),
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input text, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := c.post(ctx, "/v1/embeddings", embeddingRequest{
		Model: c.cfg.EmbeddingModel,
		Input: texts,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewEmbeddingTimeoutError(c.cfg.EmbeddingModel)
		}
		return nil, errors.NewEmbeddingFailedError(err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewEmbeddingFailedError(fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Data) != len(texts) {
		return nil, errors.NewEmbeddingFailedError(
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data)))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, errors.NewEmbeddingFailedError(fmt.Errorf("embedding index %d out of range", d.Index))
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends the messages to the chat model and returns the first
// choice's content.
func (c *Client) ChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := c.post(ctx, "/v1/chat/completions", chatRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewLLMTimeoutError(c.cfg.ChatModel)
		}
		return "", errors.NewExternalServiceError("genai", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.NewExternalServiceError("genai", fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", errors.NewExternalServiceError("genai", fmt.Errorf("empty choices in response"))
	}
	return parsed.Choices[0].Message.Content, nil
}

// post sends a JSON request with exponential backoff on transient failures.
// A fresh request is built per attempt because the body reader is consumed.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			c.logger.Warn("retrying genai request", map[string]interface{}{
				"path":    path,
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if readErr != nil {
				return nil, fmt.Errorf("read response: %w", readErr)
			}
			return body, nil
		}

		lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(body))

		// Client errors other than rate limiting will not heal on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("request to %s failed after %d retries: %w", path, c.cfg.MaxRetries, lastErr)
}
