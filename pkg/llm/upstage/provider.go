package upstage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docassist-be/pkg/llm"
)

type UpstageProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Ensure UpstageProvider implements LLMProvider
var _ llm.LLMProvider = &UpstageProvider{}

// Request Payload Structure (OpenAI Compatible)
type chatRequest struct {
	Model           string        `json:"model"`
	Messages        []llm.Message `json:"messages"`
	MaxTokens       int           `json:"max_tokens,omitempty"`
	Temperature     float64       `json:"temperature,omitempty"`
	ReasoningEffort string        `json:"reasoning_effort,omitempty"`
	Stream          bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func NewUpstageProvider(apiKey, baseURL, model string) *UpstageProvider {
	if baseURL == "" {
		baseURL = "https://api.upstage.ai/v1"
	}
	if model == "" {
		model = "solar-pro2-preview"
	}
	return &UpstageProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *UpstageProvider) buildRequest(history []llm.Message, stream bool, options ...llm.Option) *chatRequest {
	opts := &llm.Options{
		Model:           p.model,
		ReasoningEffort: "low",
	}
	for _, o := range options {
		o(opts)
	}

	// Upstage follows OpenAI roles: map "model" to "assistant"
	messages := make([]llm.Message, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = llm.Message{Role: role, Content: msg.Content}
	}

	return &chatRequest{
		Model:           opts.Model,
		Messages:        messages,
		MaxTokens:       opts.MaxTokens,
		Temperature:     opts.Temperature,
		ReasoningEffort: opts.ReasoningEffort,
		Stream:          stream,
	}
}

func (p *UpstageProvider) send(ctx context.Context, reqBody *chatRequest) (*http.Response, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (p *UpstageProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	resp, err := p.send(ctx, p.buildRequest(history, false, options...))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstage api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("upstage api returned error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from upstage api")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ChatStream consumes the SSE stream of an OpenAI-compatible completion.
// Each "data:" line carries one JSON chunk; "[DONE]" terminates the stream.
func (p *UpstageProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string), options ...llm.Option) error {
	resp, err := p.send(ctx, p.buildRequest(history, true, options...))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upstage api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip malformed keep-alive or partial lines
			continue
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onDelta(chunk.Choices[0].Delta.Content)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("upstage stream interrupted: %w", err)
	}
	return nil
}

func (p *UpstageProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	// Wrap single prompt into a user message
	messages := []llm.Message{
		{Role: "user", Content: prompt},
	}
	return p.Chat(ctx, messages, options...)
}
