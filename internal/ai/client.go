package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// completer is the chat-completion call the extractors depend on, so they
// can be tested against canned model output.
type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client talks to the OpenAI chat completions API.
type Client struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewClient creates an API client for the given model.
func NewClient(apiKey, model string, temperature float64) *Client {
	return &Client{
		apiKey:      apiKey,
		apiURL:      defaultAPIURL,
		model:       model,
		temperature: temperature,
		maxTokens:   1024,
		httpClient:  &http.Client{Timeout: 90 * time.Second},
	}
}

// Message is a single message in the chat completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body for the chat completions endpoint.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse is the response body from the chat completions endpoint.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends one system+user prompt pair and returns the model's
// reply text.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	requestID := uuid.NewString()

	messages := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}
	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[%s] completion request: model=%s prompt_len=%d", requestID, c.model, len(prompt))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	log.Printf("[%s] completion finished in %s", requestID, time.Since(start).Round(time.Millisecond))
	return response.Choices[0].Message.Content, nil
}
