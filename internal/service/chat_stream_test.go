package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"docassist-be/pkg/chat"
	"docassist-be/pkg/llm"
)

// scriptedStreamLLM streams scripted fragments, then fails or blocks until
// its context is canceled.
type scriptedStreamLLM struct {
	fragments []string
	failWith  error
	block     bool
	finished  chan struct{}
}

func (p *scriptedStreamLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (p *scriptedStreamLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string), options ...llm.Option) error {
	if p.finished != nil {
		defer close(p.finished)
	}
	for _, fragment := range p.fragments {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		onDelta(fragment)
	}
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.failWith
}

func (p *scriptedStreamLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", nil
}

type recordingStreamSink struct {
	deltas    []string
	errors    []string
	failAfter int // SendDelta fails once this many were accepted, -1 never
}

func (s *recordingStreamSink) SendDelta(fragment string) error {
	if s.failAfter >= 0 && len(s.deltas) >= s.failAfter {
		return errors.New("write: broken pipe")
	}
	s.deltas = append(s.deltas, fragment)
	return nil
}

func (s *recordingStreamSink) SendError(description string) {
	s.errors = append(s.errors, description)
}

func TestCollectStreamAccumulatesAndForwards(t *testing.T) {
	provider := &scriptedStreamLLM{fragments: []string{"a", "b", "c"}}
	stream := chat.NewEngine(provider).Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	sink := &recordingStreamSink{failAfter: -1}

	reply, clientGone := collectStream(stream, sink)

	if clientGone {
		t.Error("clientGone = true for a healthy connection")
	}
	if reply != "abc" {
		t.Errorf("reply = %q, want %q", reply, "abc")
	}
	if len(sink.deltas) != 3 || len(sink.errors) != 0 {
		t.Errorf("sink saw %d deltas and %d errors, want 3 and 0", len(sink.deltas), len(sink.errors))
	}
}

func TestCollectStreamStopsWhenClientGone(t *testing.T) {
	provider := &scriptedStreamLLM{
		fragments: []string{"one", "two", "three"},
		block:     true,
		finished:  make(chan struct{}),
	}
	stream := chat.NewEngine(provider).Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	sink := &recordingStreamSink{failAfter: 1}

	reply, clientGone := collectStream(stream, sink)

	if !clientGone {
		t.Fatal("clientGone = false after a delta write failure")
	}
	if reply != "onetwo" {
		t.Errorf("reply = %q, want the fragments accumulated before the stop", reply)
	}

	// The provider call must be canceled, not drained to exhaustion.
	select {
	case <-provider.finished:
	case <-time.After(2 * time.Second):
		t.Fatal("provider stream kept running after the client vanished")
	}
}

func TestCollectStreamRoutesFailureDescription(t *testing.T) {
	provider := &scriptedStreamLLM{
		fragments: []string{"partial "},
		failWith:  errors.New("upstream timeout"),
	}
	stream := chat.NewEngine(provider).Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	sink := &recordingStreamSink{failAfter: -1}

	reply, clientGone := collectStream(stream, sink)

	if clientGone {
		t.Error("clientGone = true, want false for a provider failure")
	}
	if reply != "partial " {
		t.Errorf("reply = %q, the error description must not enter the answer text", reply)
	}
	if len(sink.deltas) != 1 || sink.deltas[0] != "partial " {
		t.Errorf("deltas = %v, want only the real fragment", sink.deltas)
	}
	if len(sink.errors) != 1 || sink.errors[0] != "upstream timeout" {
		t.Errorf("errors = %v, want the failure description as an error frame", sink.errors)
	}
	if stream.Err() == nil {
		t.Error("Err() should report the mid-stream failure")
	}
}
