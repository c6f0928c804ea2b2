package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"docassist-be/pkg/llm"
	"docassist-be/pkg/profile"
)

type stubLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	if len(history) > 0 {
		s.prompts = append(s.prompts, history[len(history)-1].Content)
	}
	return s.response, s.err
}

func (s *stubLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string), options ...llm.Option) error {
	reply, err := s.Chat(ctx, history, options...)
	if err != nil {
		return err
	}
	onDelta(reply)
	return nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type stubRetriever struct {
	passages []Passage
	err      error
	queries  []string
}

func (s *stubRetriever) Retrieve(ctx context.Context, userId string, query string, k int) ([]Passage, error) {
	s.queries = append(s.queries, query)
	return s.passages, s.err
}

type recordingUpdater struct {
	turns []llm.Message
}

func (r *recordingUpdater) AnalyzeAndApply(ctx context.Context, userId string, turns []llm.Message) {
	r.turns = turns
}

var testSkipPrefixes = []string{"📄", "❌"}

func historyOf(pairs int) []llm.Message {
	var out []llm.Message
	for i := 0; i < pairs; i++ {
		out = append(out,
			llm.Message{Role: "user", Content: fmt.Sprintf("question %d", i)},
			llm.Message{Role: "assistant", Content: fmt.Sprintf("answer %d", i)},
		)
	}
	return out
}

func newTestAssembler(provider *stubLLM, retriever Retriever, updater ProfileUpdater) *Assembler {
	return NewAssembler(NewSummarizer(provider, testSkipPrefixes), retriever, updater, testSkipPrefixes, 7)
}

func TestAssembleShapeWithEmptyHistory(t *testing.T) {
	a := newTestAssembler(&stubLLM{}, nil, nil)

	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "You are helpful.",
		CurrentInput: "hello there",
	})

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want [system, user]", len(messages))
	}
	if messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", messages[0].Role)
	}
	if messages[1].Role != "user" || messages[1].Content != "hello there" {
		t.Errorf("last message = %+v, want the current input", messages[1])
	}
}

func TestAssembleShortHistorySkipsSummarizer(t *testing.T) {
	provider := &stubLLM{response: "a summary"}
	a := newTestAssembler(provider, nil, nil)

	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		History:      historyOf(7), // exactly the verbatim window
		CurrentInput: "next question",
	})

	if provider.calls != 0 {
		t.Errorf("summarizer ran %d times for a history inside the window", provider.calls)
	}
	// system + 14 history turns + current input
	if len(messages) != 16 {
		t.Errorf("got %d messages, want 16", len(messages))
	}
}

func TestAssembleLongHistorySummarizedOnce(t *testing.T) {
	provider := &stubLLM{response: "summary of the early turns"}
	a := newTestAssembler(provider, nil, nil)

	history := historyOf(8) // 16 turns, 2 beyond the window
	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		History:      history,
		CurrentInput: "next question",
	})

	if provider.calls != 1 {
		t.Fatalf("summarizer ran %d times, want exactly 1", provider.calls)
	}
	transcript := provider.prompts[0]
	if !strings.Contains(transcript, "question 0") || !strings.Contains(transcript, "answer 0") {
		t.Errorf("summarizer did not receive the oldest turns: %q", transcript)
	}
	if strings.Contains(transcript, "question 1") {
		t.Errorf("summarizer received turns from the verbatim window: %q", transcript)
	}

	if !strings.Contains(messages[0].Content, "summary of the early turns") {
		t.Error("summary missing from the system message")
	}
	// system + 14 recent turns + current input
	if len(messages) != 16 {
		t.Errorf("got %d messages, want 16", len(messages))
	}
	if got := messages[1].Content; got != "question 1" {
		t.Errorf("recent window starts at %q, want question 1", got)
	}
}

func TestAssembleSummarizerFailureDegrades(t *testing.T) {
	provider := &stubLLM{err: fmt.Errorf("model offline")}
	a := newTestAssembler(provider, nil, nil)

	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		History:      historyOf(9),
		CurrentInput: "next",
	})

	if messages[0].Content != "sys" {
		t.Errorf("failed summary should leave the system prompt untouched, got %q", messages[0].Content)
	}
	if messages[len(messages)-1].Content != "next" {
		t.Error("current input must still close the sequence")
	}
}

func TestAssembleExcludesDecoratedTurns(t *testing.T) {
	provider := &stubLLM{response: "should not appear"}
	a := newTestAssembler(provider, nil, nil)

	history := []llm.Message{
		{Role: "user", Content: "real question"},
		{Role: "assistant", Content: "📄 Document 'x.pdf' uploaded."},
		{Role: "assistant", Content: "❌ Sorry, something went wrong."},
		{Role: "assistant", Content: "real answer"},
	}
	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		History:      history,
		CurrentInput: "next",
	})

	for _, m := range messages {
		if strings.HasPrefix(m.Content, "📄") || strings.HasPrefix(m.Content, "❌") {
			t.Errorf("decorated turn leaked into the model context: %q", m.Content)
		}
	}
	// system + 2 real turns + current input
	if len(messages) != 4 {
		t.Errorf("got %d messages, want 4", len(messages))
	}
}

func TestAssembleProfileBlock(t *testing.T) {
	a := newTestAssembler(&stubLLM{}, nil, nil)

	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		CurrentInput: "hi",
		Profile: &profile.Profile{
			Interests:      []string{"technology"},
			PreferredStyle: "concise",
		},
	})

	sys := messages[0].Content
	if !strings.Contains(sys, "technology") || !strings.Contains(sys, "concise") {
		t.Errorf("profile block missing from system prompt: %q", sys)
	}

	// An empty profile adds nothing
	messages = a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		CurrentInput: "hi",
		Profile:      &profile.Profile{},
	})
	if messages[0].Content != "sys" {
		t.Errorf("empty profile changed the system prompt: %q", messages[0].Content)
	}
}

func TestAssembleRetrievalAugmentation(t *testing.T) {
	retriever := &stubRetriever{passages: []Passage{
		{Content: "passage about gophers"},
		{Content: "passage about burrows"},
	}}
	a := newTestAssembler(&stubLLM{}, retriever, nil)

	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt:   "sys",
		CurrentInput:   "tell me about gophers",
		RetrievalQuery: "gophers",
		TopK:           2,
	})

	sys := messages[0].Content
	if !strings.Contains(sys, "passage about gophers") || !strings.Contains(sys, "passage about burrows") {
		t.Errorf("retrieved passages missing from system prompt: %q", sys)
	}
	if len(retriever.queries) != 1 || retriever.queries[0] != "gophers" {
		t.Errorf("retriever queries = %v", retriever.queries)
	}
}

func TestAssembleRetrievalFailureDegrades(t *testing.T) {
	retriever := &stubRetriever{err: fmt.Errorf("index offline")}
	a := newTestAssembler(&stubLLM{}, retriever, nil)

	messages := a.Assemble(context.Background(), AssembleInput{
		SystemPrompt:   "sys",
		CurrentInput:   "hi",
		RetrievalQuery: "hi",
	})

	if messages[0].Content != "sys" {
		t.Errorf("failed retrieval should leave the system prompt untouched: %q", messages[0].Content)
	}
}

func TestAssembleNotifiesProfileUpdater(t *testing.T) {
	updater := &recordingUpdater{}
	a := newTestAssembler(&stubLLM{}, nil, updater)

	history := historyOf(2)
	a.Assemble(context.Background(), AssembleInput{
		SystemPrompt: "sys",
		History:      history,
		CurrentInput: "the new question",
		UserId:       "user-1",
	})

	if len(updater.turns) != len(history)+1 {
		t.Fatalf("updater received %d turns, want %d", len(updater.turns), len(history)+1)
	}
	last := updater.turns[len(updater.turns)-1]
	if last.Content != "the new question" {
		t.Errorf("updater should see the current input as the final turn, got %q", last.Content)
	}
}
