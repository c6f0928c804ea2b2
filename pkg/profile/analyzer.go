package profile

import (
	"strings"

	"docassist-be/pkg/llm"
)

const (
	// Analysis activates only once a session has enough signal.
	minSessionMessages = 6
	minUserMessages    = 3

	questionRatioThreshold = 0.6
	detailRatioThreshold   = 0.5
	detailMessageLength    = 50
)

// interestKeywords maps an interest category to the keywords that indicate it.
var interestKeywords = map[string][]string{
	"technology": {"AI", "artificial intelligence", "programming", "coding", "software", "hardware", "developer"},
	"business":   {"business", "management", "marketing", "investment", "startup", "company", "revenue"},
	"education":  {"learning", "study", "education", "lecture", "course", "exam", "school"},
	"health":     {"exercise", "health", "diet", "medical", "hospital", "medicine"},
	"travel":     {"travel", "tourism", "vacation", "hotel", "flight", "abroad"},
	"food":       {"cooking", "recipe", "restaurant", "food", "cafe", "cuisine"},
}

// categoryOrder keeps analyzer output deterministic; map iteration is not.
var categoryOrder = []string{"technology", "business", "education", "health", "travel", "food"}

// Analyzer infers profile deltas from conversation turns with cheap keyword
// and message-shape heuristics. It is pure and never fails: not enough
// signal simply yields an empty delta.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(turns []llm.Message) Delta {
	if len(turns) < minSessionMessages {
		return Delta{}
	}

	var userMessages []string
	for _, turn := range turns {
		if turn.Role == "user" {
			userMessages = append(userMessages, turn.Content)
		}
	}
	if len(userMessages) < minUserMessages {
		return Delta{}
	}

	var delta Delta

	for _, category := range categoryOrder {
		if anyMessageMentions(userMessages, interestKeywords[category]) {
			delta.Interests = append(delta.Interests, category)
		}
	}

	questionCount := 0
	detailCount := 0
	for _, msg := range userMessages {
		if isQuestion(msg) {
			questionCount++
		}
		if len([]rune(msg)) > detailMessageLength {
			detailCount++
		}
	}

	total := float64(len(userMessages))
	if float64(questionCount) > total*questionRatioThreshold {
		delta.PersonalityTraits = append(delta.PersonalityTraits, "inquisitive")
	}
	if float64(detailCount) > total*detailRatioThreshold {
		delta.PersonalityTraits = append(delta.PersonalityTraits, "prefers detailed explanations")
	}

	return delta
}

func anyMessageMentions(messages []string, keywords []string) bool {
	for _, msg := range messages {
		lower := strings.ToLower(msg)
		for _, keyword := range keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}

func isQuestion(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "?") ||
		strings.Contains(lower, "what") ||
		strings.Contains(lower, "how")
}
