package factory

import (
	"fmt"

	"docassist-be/pkg/llm"
	"docassist-be/pkg/llm/ollama"
	"docassist-be/pkg/llm/upstage"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "upstage":
		return upstage.NewUpstageProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
