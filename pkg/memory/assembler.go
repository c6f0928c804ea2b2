package memory

import (
	"context"
	"strings"

	"docassist-be/pkg/llm"
	"docassist-be/pkg/profile"
)

const DefaultRecentCount = 7

// Passage is one retrieved reference chunk.
type Passage struct {
	Content  string
	Metadata map[string]interface{}
}

// Retriever supplies reference passages for a query, scoped to the
// requesting user. Failures are treated as "no augmentation", never as a
// fatal error.
type Retriever interface {
	Retrieve(ctx context.Context, userId string, query string, k int) ([]Passage, error)
}

// ProfileUpdater receives the session turns after each assembly so inferred
// profile deltas can be applied out-of-band.
type ProfileUpdater interface {
	AnalyzeAndApply(ctx context.Context, userId string, turns []llm.Message)
}

type AssembleInput struct {
	SystemPrompt    string
	History         []llm.Message
	CurrentInput    string
	Profile         *profile.Profile
	UserId          string
	DocumentContext string // opaque, already summarized or truncated by the caller
	RetrievalQuery  string
	TopK            int
}

// Assembler builds the bounded message sequence for one LLM call: system
// prompt enriched with profile block, summary of older turns, and document or
// retrieved context, followed by the verbatim recent window and the current
// input.
type Assembler struct {
	summarizer   *Summarizer
	retriever    Retriever
	profiles     ProfileUpdater
	skipPrefixes []string
	recentCount  int
}

func NewAssembler(summarizer *Summarizer, retriever Retriever, profiles ProfileUpdater, skipPrefixes []string, recentCount int) *Assembler {
	if recentCount <= 0 {
		recentCount = DefaultRecentCount
	}
	return &Assembler{
		summarizer:   summarizer,
		retriever:    retriever,
		profiles:     profiles,
		skipPrefixes: skipPrefixes,
		recentCount:  recentCount,
	}
}

// Assemble always returns a sequence starting with exactly one system message
// and ending with exactly one user message containing the current input.
func (a *Assembler) Assemble(ctx context.Context, in AssembleInput) []llm.Message {
	systemPrompt := in.SystemPrompt

	if in.Profile != nil && !in.Profile.IsEmpty() {
		systemPrompt = systemPrompt + "\n\n" + renderProfileBlock(in.Profile)
	}

	window := a.recentCount * 2
	old := []llm.Message(nil)
	recent := in.History
	if len(in.History) > window {
		old = in.History[:len(in.History)-window]
		recent = in.History[len(in.History)-window:]
	}

	if len(old) > 0 {
		if summary := a.summarizer.Summarize(ctx, old); summary != "" {
			systemPrompt = systemPrompt + "\n\n" + summary +
				"\n\nThe above is a summary of earlier conversation in this session. Use it as context for your answer."
		}
	}

	if in.DocumentContext != "" && !strings.Contains(systemPrompt, in.DocumentContext) {
		systemPrompt = systemPrompt + "\n\nDocument context:\n" + in.DocumentContext
	}

	if in.RetrievalQuery != "" && a.retriever != nil {
		if passages, err := a.retriever.Retrieve(ctx, in.UserId, in.RetrievalQuery, in.TopK); err == nil && len(passages) > 0 {
			var sb strings.Builder
			sb.WriteString("Relevant reference passages:")
			for _, p := range passages {
				sb.WriteString("\n- ")
				sb.WriteString(p.Content)
			}
			systemPrompt = systemPrompt + "\n\n" + sb.String()
		}
	}

	messages := []llm.Message{{Role: "system", Content: systemPrompt}}

	for _, turn := range recent {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		if hasAnyPrefix(turn.Content, a.skipPrefixes) {
			continue
		}
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, llm.Message{Role: "user", Content: in.CurrentInput})

	if a.profiles != nil {
		turns := append(append([]llm.Message(nil), in.History...), llm.Message{Role: "user", Content: in.CurrentInput})
		a.profiles.AnalyzeAndApply(ctx, in.UserId, turns)
	}

	return messages
}

func renderProfileBlock(p *profile.Profile) string {
	var parts []string
	if len(p.Interests) > 0 {
		parts = append(parts, "User interests: "+strings.Join(p.Interests, ", "))
	}
	if len(p.PersonalityTraits) > 0 {
		parts = append(parts, "User personality: "+strings.Join(p.PersonalityTraits, ", "))
	}
	if p.PreferredStyle != "" {
		parts = append(parts, "Preferred answer style: "+p.PreferredStyle)
	}
	if len(p.CommunicationPatterns) > 0 {
		parts = append(parts, "Communication patterns: "+strings.Join(p.CommunicationPatterns, ", "))
	}
	if len(parts) == 0 {
		return ""
	}

	return "**User personalization (shared across sessions):**\n" +
		strings.Join(parts, "\n") +
		"\n\nUse this information to tailor your answers to the user."
}
