package chat

import (
	"context"
	"sync"

	"docassist-be/pkg/llm"
)

// Engine wraps an LLM provider for the primary answer call. No retries are
// performed; retry policy belongs to the caller.
type Engine struct {
	provider llm.LLMProvider
	options  []llm.Option
}

func NewEngine(provider llm.LLMProvider, options ...llm.Option) *Engine {
	return &Engine{
		provider: provider,
		options:  options,
	}
}

// Complete runs one blocking completion over the assembled messages.
func (e *Engine) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return e.provider.Chat(ctx, messages, e.options...)
}

// Fragment is one unit of streamed output. Err marks the terminal fragment
// of a failed stream, whose Text is an error description rather than answer
// content.
type Fragment struct {
	Text string
	Err  bool
}

// Stream is a finite, non-restartable fragment sequence. Fragments arrive in
// order and are never retracted. Close cancels the underlying request; no
// further fragments are delivered after cancellation.
type Stream struct {
	cancel    context.CancelFunc
	fragments chan Fragment
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// Stream issues the request and returns immediately; fragments are consumed
// from Fragments until the channel closes. A mid-stream failure delivers one
// final fragment describing the error, then the stream ends. Each call
// re-issues the underlying request.
func (e *Engine) Stream(ctx context.Context, messages []llm.Message) *Stream {
	streamCtx, cancel := context.WithCancel(ctx)
	s := &Stream{
		cancel:    cancel,
		fragments: make(chan Fragment),
	}

	go func() {
		defer close(s.fragments)
		err := e.provider.ChatStream(streamCtx, messages, func(delta string) {
			select {
			case s.fragments <- Fragment{Text: delta}:
			case <-streamCtx.Done():
			}
		}, e.options...)

		if err != nil && streamCtx.Err() == nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			select {
			case s.fragments <- Fragment{Text: err.Error(), Err: true}:
			case <-streamCtx.Done():
			}
		}
	}()

	return s
}

// Fragments yields fragments in arrival order until the stream ends.
func (s *Stream) Fragments() <-chan Fragment {
	return s.fragments
}

// Err reports the failure that ended the stream, if any. Valid once
// Fragments has been drained.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close abandons the stream early and closes the underlying connection.
func (s *Stream) Close() {
	s.closeOnce.Do(s.cancel)
}
