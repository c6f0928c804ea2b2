package profile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"docassist-be/pkg/llm"
)

type scriptedLLM struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	if len(history) > 0 {
		s.lastPrompt = history[len(history)-1].Content
	}
	return s.response, s.err
}

func (s *scriptedLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string), options ...llm.Option) error {
	reply, err := s.Chat(ctx, history, options...)
	if err != nil {
		return err
	}
	onDelta(reply)
	return nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func longSession(userCount int) []llm.Message {
	var turns []llm.Message
	for i := 0; i < userCount; i++ {
		turns = append(turns,
			llm.Message{Role: "user", Content: fmt.Sprintf("user message %d", i)},
			llm.Message{Role: "assistant", Content: "reply"},
		)
	}
	return turns
}

func TestLLMAnalyzeSkipsShortSessions(t *testing.T) {
	provider := &scriptedLLM{response: `{"interests":["technology"]}`}
	a := NewLLMAnalyzer(provider)

	delta := a.Analyze(context.Background(), longSession(4))
	if !delta.IsEmpty() {
		t.Errorf("Analyze() = %+v, want empty delta for a short session", delta)
	}
	if provider.calls != 0 {
		t.Errorf("short sessions should not reach the model, got %d calls", provider.calls)
	}
}

func TestLLMAnalyzeParsesWrappedJSON(t *testing.T) {
	provider := &scriptedLLM{response: `Here is the analysis you asked for:
{
    "interests": ["technology"],
    "personality_traits": ["curious"],
    "preferred_response_style": "concise",
    "communication_patterns": ["short questions"]
}
Let me know if you need more.`}
	a := NewLLMAnalyzer(provider)

	delta := a.Analyze(context.Background(), longSession(6))
	if len(delta.Interests) != 1 || delta.Interests[0] != "technology" {
		t.Errorf("Interests = %v", delta.Interests)
	}
	if delta.PreferredStyle != "concise" {
		t.Errorf("PreferredStyle = %q", delta.PreferredStyle)
	}
}

func TestLLMAnalyzeUsesRecentUserMessages(t *testing.T) {
	provider := &scriptedLLM{response: `{"interests":[]}`}
	a := NewLLMAnalyzer(provider)

	a.Analyze(context.Background(), longSession(8))
	if strings.Contains(provider.lastPrompt, "user message 2") {
		t.Error("prompt should only carry the most recent user messages")
	}
	if !strings.Contains(provider.lastPrompt, "user message 7") {
		t.Error("prompt should carry the latest user message")
	}
}

func TestLLMAnalyzeDiscardsBadOutput(t *testing.T) {
	tests := []struct {
		name     string
		provider *scriptedLLM
	}{
		{
			name:     "provider error",
			provider: &scriptedLLM{err: fmt.Errorf("upstream down")},
		},
		{
			name:     "no json in response",
			provider: &scriptedLLM{response: "I cannot analyze this conversation."},
		},
		{
			name:     "malformed json",
			provider: &scriptedLLM{response: `{"interests": [unquoted]}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewLLMAnalyzer(tt.provider)
			delta := a.Analyze(context.Background(), longSession(6))
			if !delta.IsEmpty() {
				t.Errorf("Analyze() = %+v, want empty delta", delta)
			}
		})
	}
}
