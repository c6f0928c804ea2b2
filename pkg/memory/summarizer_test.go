package memory

import (
	"context"
	"strings"
	"testing"

	"docassist-be/pkg/llm"
)

func TestSummarizeEmptyInput(t *testing.T) {
	provider := &stubLLM{response: "summary"}
	s := NewSummarizer(provider, testSkipPrefixes)

	if got := s.Summarize(context.Background(), nil); got != "" {
		t.Errorf("Summarize(nil) = %q, want empty", got)
	}
	if provider.calls != 0 {
		t.Errorf("empty input should not reach the model")
	}
}

func TestSummarizeSkipsDecoratedTurns(t *testing.T) {
	provider := &stubLLM{response: "summary"}
	s := NewSummarizer(provider, testSkipPrefixes)

	turns := []llm.Message{
		{Role: "user", Content: "real question"},
		{Role: "assistant", Content: "📄 Document 'a.pdf' uploaded."},
		{Role: "assistant", Content: "real answer"},
		{Role: "system", Content: "system lines never enter transcripts"},
	}
	got := s.Summarize(context.Background(), turns)
	if got != "summary" {
		t.Fatalf("Summarize() = %q", got)
	}

	transcript := provider.prompts[0]
	if strings.Contains(transcript, "📄") {
		t.Errorf("decorated turn leaked into the transcript: %q", transcript)
	}
	if strings.Contains(transcript, "system lines") {
		t.Errorf("system turn leaked into the transcript: %q", transcript)
	}
	if !strings.Contains(transcript, "User: real question") || !strings.Contains(transcript, "Assistant: real answer") {
		t.Errorf("transcript missing labeled turns: %q", transcript)
	}
}

func TestSummarizeAllTurnsDecorated(t *testing.T) {
	provider := &stubLLM{response: "summary"}
	s := NewSummarizer(provider, testSkipPrefixes)

	turns := []llm.Message{
		{Role: "assistant", Content: "📄 Document uploaded."},
		{Role: "assistant", Content: "❌ Something failed."},
	}
	if got := s.Summarize(context.Background(), turns); got != "" {
		t.Errorf("Summarize() = %q, want empty when nothing is summarizable", got)
	}
	if provider.calls != 0 {
		t.Errorf("fully decorated input should not reach the model")
	}
}
