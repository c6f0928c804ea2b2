package upstage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"docassist-be/pkg/embedding"
)

type UpstageProvider struct {
	apiKey  string
	baseURL string
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewUpstageProvider(apiKey string) *UpstageProvider {
	return &UpstageProvider{
		apiKey:  apiKey,
		baseURL: "https://api.upstage.ai/v1/embeddings",
	}
}

// Generate maps the task type onto Upstage's query/passage embedding models.
func (p *UpstageProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	model := "embedding-passage"
	if taskType == "RETRIEVAL_QUERY" || taskType == "QUESTION_ANSWERING" {
		model = "embedding-query"
	}

	reqBody := embeddingRequest{
		Model: model,
		Input: []string{text},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstage api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var upstageResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &upstageResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if upstageResp.Error != nil {
		return nil, fmt.Errorf("upstage api returned error: %s", upstageResp.Error.Message)
	}

	if len(upstageResp.Data) == 0 {
		return nil, fmt.Errorf("empty embeddings from upstage api")
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: embedding.NormalizeVector(upstageResp.Data[0].Embedding),
		},
	}, nil
}
