package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"docassist-be/pkg/llm"
)

// fragmentLLM streams scripted fragments and optionally fails after them.
type fragmentLLM struct {
	fragments []string
	failAfter int // fail after this many fragments, -1 never
	block     chan struct{}
}

func (f *fragmentLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	var out string
	err := f.ChatStream(ctx, history, func(delta string) { out += delta }, options...)
	return out, err
}

func (f *fragmentLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string), options ...llm.Option) error {
	for i, fragment := range f.fragments {
		if f.failAfter >= 0 && i >= f.failAfter {
			return fmt.Errorf("connection reset mid-stream")
		}
		if f.block != nil {
			select {
			case <-f.block:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		onDelta(fragment)
	}
	return nil
}

func (f *fragmentLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func collect(s *Stream) []Fragment {
	var out []Fragment
	for fragment := range s.Fragments() {
		out = append(out, fragment)
	}
	return out
}

func TestStreamDeliversFragmentsInOrder(t *testing.T) {
	provider := &fragmentLLM{fragments: []string{"Hello", ", ", "world"}, failAfter: -1}
	e := NewEngine(provider)

	s := e.Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	got := collect(s)

	want := []string{"Hello", ", ", "world"}
	if len(got) != len(want) {
		t.Fatalf("got %d fragments, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, got[i].Text, want[i])
		}
		if got[i].Err {
			t.Errorf("fragment %d marked as error", i)
		}
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil", s.Err())
	}
}

func TestStreamMidStreamFailure(t *testing.T) {
	provider := &fragmentLLM{fragments: []string{"one", "two", "three", "never"}, failAfter: 3}
	e := NewEngine(provider)

	s := e.Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	got := collect(s)

	// Three real fragments, then one final fragment carrying the error text
	if len(got) != 4 {
		t.Fatalf("got %d fragments, want 4: %v", len(got), got)
	}
	if got[3].Text != "connection reset mid-stream" || !got[3].Err {
		t.Errorf("final fragment = %+v, want the error description marked as error", got[3])
	}
	for i := 0; i < 3; i++ {
		if got[i].Err {
			t.Errorf("fragment %d marked as error", i)
		}
	}
	if s.Err() == nil {
		t.Error("Err() should report the mid-stream failure")
	}
}

func TestStreamCloseStopsDelivery(t *testing.T) {
	provider := &fragmentLLM{
		fragments: []string{"a", "b", "c"},
		failAfter: -1,
		block:     make(chan struct{}),
	}
	e := NewEngine(provider)

	s := e.Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	s.Close()
	s.Close() // idempotent

	done := make(chan struct{})
	go func() {
		for range s.Fragments() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not terminate after Close")
	}
}

func TestCompleteReturnsFullAnswer(t *testing.T) {
	provider := &fragmentLLM{fragments: []string{"full ", "answer"}, failAfter: -1}
	e := NewEngine(provider)

	got, err := e.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "full answer" {
		t.Errorf("Complete() = %q", got)
	}
}
