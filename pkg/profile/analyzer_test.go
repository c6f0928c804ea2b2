package profile

import (
	"reflect"
	"testing"

	"docassist-be/pkg/llm"
)

func turnsAlternating(userContents []string) []llm.Message {
	var turns []llm.Message
	for _, content := range userContents {
		turns = append(turns,
			llm.Message{Role: "user", Content: content},
			llm.Message{Role: "assistant", Content: "ok"},
		)
	}
	return turns
}

func TestAnalyzeNeedsEnoughSignal(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name  string
		turns []llm.Message
	}{
		{
			name:  "too few session messages",
			turns: turnsAlternating([]string{"tell me about programming", "more please"}),
		},
		{
			name: "enough messages but too few from the user",
			turns: []llm.Message{
				{Role: "user", Content: "tell me about programming"},
				{Role: "assistant", Content: "a"},
				{Role: "assistant", Content: "b"},
				{Role: "assistant", Content: "c"},
				{Role: "assistant", Content: "d"},
				{Role: "user", Content: "thanks"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Analyze(tt.turns); !got.IsEmpty() {
				t.Errorf("Analyze() = %+v, want empty delta", got)
			}
		})
	}
}

func TestAnalyzeDetectsInterests(t *testing.T) {
	a := NewAnalyzer()
	turns := turnsAlternating([]string{
		"I love programming and software design",
		"my startup needs better marketing",
		"tell me more",
	})

	delta := a.Analyze(turns)
	want := []string{"technology", "business"}
	if !reflect.DeepEqual(delta.Interests, want) {
		t.Errorf("Interests = %v, want %v", delta.Interests, want)
	}
}

func TestAnalyzeInterestOrderIsDeterministic(t *testing.T) {
	a := NewAnalyzer()
	// Mention categories in reverse of the canonical order
	turns := turnsAlternating([]string{
		"I enjoy cooking a new recipe",
		"booked a flight for vacation",
		"I write software every day",
	})

	delta := a.Analyze(turns)
	want := []string{"technology", "travel", "food"}
	if !reflect.DeepEqual(delta.Interests, want) {
		t.Errorf("Interests = %v, want canonical order %v", delta.Interests, want)
	}
}

func TestAnalyzeQuestionTrait(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name     string
		messages []string
		want     bool
	}{
		{
			name:     "all questions",
			messages: []string{"what is this?", "how does it work?", "why though?"},
			want:     true,
		},
		{
			name:     "exactly at the threshold is not enough",
			messages: []string{"what is this?", "how does it work?", "why though?", "ok", "thanks"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := a.Analyze(turnsAlternating(tt.messages))
			got := containsTag(delta.PersonalityTraits, "inquisitive")
			if got != tt.want {
				t.Errorf("inquisitive = %v, want %v (traits %v)", got, tt.want, delta.PersonalityTraits)
			}
		})
	}
}

func TestAnalyzeDetailTrait(t *testing.T) {
	a := NewAnalyzer()
	long := "this message is deliberately written to be much longer than fifty characters in total"

	delta := a.Analyze(turnsAlternating([]string{long, long, "ok"}))
	if !containsTag(delta.PersonalityTraits, "prefers detailed explanations") {
		t.Errorf("expected detail trait, got %v", delta.PersonalityTraits)
	}

	delta = a.Analyze(turnsAlternating([]string{long, "ok", "sure", "fine"}))
	if containsTag(delta.PersonalityTraits, "prefers detailed explanations") {
		t.Errorf("detail trait should need a strict majority, got %v", delta.PersonalityTraits)
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
