package docparse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DocumentParser converts an uploaded file into plain text.
type DocumentParser interface {
	Parse(ctx context.Context, filename string, file io.Reader) (string, error)
}

// UpstageParser calls Upstage's document digitization endpoint. The response
// contains HTML content which is flattened into plain text.
type UpstageParser struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type digitizationResponse struct {
	Content struct {
		Html string `json:"html"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewUpstageParser(apiKey string) *UpstageParser {
	return &UpstageParser{
		apiKey:  apiKey,
		baseURL: "https://api.upstage.ai/v1/document-digitization",
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *UpstageParser) Parse(ctx context.Context, filename string, file io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	_ = writer.WriteField("model", "document-parse")
	_ = writer.WriteField("ocr", "auto")
	_ = writer.WriteField("output_formats", `["html"]`)

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstage digitization error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed digitizationResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("upstage digitization returned error: %s", parsed.Error.Message)
	}

	if parsed.Content.Text != "" {
		return parsed.Content.Text, nil
	}
	return ExtractText(parsed.Content.Html)
}
