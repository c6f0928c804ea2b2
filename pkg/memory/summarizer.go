package memory

import (
	"context"
	"strings"

	"docassist-be/pkg/llm"
)

const summarizerSystemPrompt = `You are a conversation summarization expert.
Condense the given conversation into its essential points.
Write the summary in this format:

**Summary of earlier conversation in this session:**
- Bullet points covering the main questions and answers
- Include important context and information
- Keep it to 3-5 concise sentences

Preserve the flow and key content of the conversation while staying brief.
This summary exists to maintain context within the current session.`

// Summarizer condenses older turns into a short digest with a single LLM
// call. It is best-effort: empty input, no eligible turns, or a failed call
// all yield an empty summary rather than an error.
type Summarizer struct {
	provider     llm.LLMProvider
	skipPrefixes []string
	options      []llm.Option
}

func NewSummarizer(provider llm.LLMProvider, skipPrefixes []string, options ...llm.Option) *Summarizer {
	return &Summarizer{
		provider:     provider,
		skipPrefixes: skipPrefixes,
		options:      options,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, turns []llm.Message) string {
	if len(turns) == 0 {
		return ""
	}

	var transcript strings.Builder
	for _, turn := range turns {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		if hasAnyPrefix(turn.Content, s.skipPrefixes) {
			continue
		}
		roleName := "User"
		if turn.Role == "assistant" {
			roleName = "Assistant"
		}
		transcript.WriteString(roleName)
		transcript.WriteString(": ")
		transcript.WriteString(turn.Content)
		transcript.WriteString("\n\n")
	}

	if strings.TrimSpace(transcript.String()) == "" {
		return ""
	}

	messages := []llm.Message{
		{Role: "system", Content: summarizerSystemPrompt},
		{Role: "user", Content: "Summarize the following conversation:\n\n" + transcript.String()},
	}

	opts := append([]llm.Option{llm.WithReasoningEffort("medium")}, s.options...)
	summary, err := s.provider.Chat(ctx, messages, opts...)
	if err != nil {
		return ""
	}
	return summary
}

func hasAnyPrefix(content string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(content, prefix) {
			return true
		}
	}
	return false
}
