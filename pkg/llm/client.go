// Package llm is the optional chat-completions fallback used for questions
// the local intent cascade cannot answer. Any failure is soft: callers treat
// an error as "no answer available".
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const systemPrompt = "You are an assistant for an invoice dashboard. Answer concisely using only the provided JSON context."

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type Client struct {
	apiKey string
	url    string
	model  string
	site   string
	title  string
	http   *http.Client
}

// NewFromEnv builds a client from OPENROUTER_* variables. Returns nil when no
// API key is configured, which disables the fallback entirely.
func NewFromEnv() *Client {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil
	}
	c := &Client{
		apiKey: apiKey,
		url:    os.Getenv("OPENROUTER_URL"),
		model:  os.Getenv("OPENROUTER_MODEL"),
		site:   os.Getenv("OPENROUTER_SITE"),
		title:  os.Getenv("OPENROUTER_TITLE"),
		http:   &http.Client{Timeout: 30 * time.Second},
	}
	if c.url == "" {
		c.url = "https://openrouter.ai/api/v1/chat/completions"
	}
	if c.model == "" {
		c.model = "openai/gpt-4o-mini"
	}
	if c.site == "" {
		c.site = "http://localhost:3000"
	}
	if c.title == "" {
		c.title = "Invoice AI MVP"
	}
	return c
}

// Answer asks the model the question against the serialized invoice context
// and returns the first choice's text.
func (c *Client) Answer(ctx context.Context, question string, contextJSON []byte) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Question: %s\n\nContext JSON:\n%s", question, contextJSON)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.site)
	req.Header.Set("X-Title", c.title)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
