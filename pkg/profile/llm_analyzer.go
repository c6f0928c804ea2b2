package profile

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"docassist-be/pkg/llm"
)

const (
	// The LLM pass is only worth its cost on longer sessions.
	minMessagesForLLM = 10
	llmRecentMessages = 5
)

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

const analysisSystemPrompt = "You are a user behavior analyst. Examine the conversation and characterize the user."

const analysisPromptTemplate = `Analyze the following user messages and characterize the user:

%MESSAGES%

Respond with JSON in exactly this shape:
{
    "interests": ["interest1", "interest2"],
    "personality_traits": ["trait1", "trait2"],
    "preferred_response_style": "preferred answer style",
    "communication_patterns": ["pattern1", "pattern2"]
}

Be concise and accurate.`

type llmAnalysisResult struct {
	Interests              []string `json:"interests"`
	PersonalityTraits      []string `json:"personality_traits"`
	PreferredResponseStyle string   `json:"preferred_response_style"`
	CommunicationPatterns  []string `json:"communication_patterns"`
}

// LLMAnalyzer asks the model for a structured profile fragment. Strictly
// best-effort: any call failure or unparseable output yields an empty delta
// so the heuristic result stands alone.
type LLMAnalyzer struct {
	provider llm.LLMProvider
}

func NewLLMAnalyzer(provider llm.LLMProvider) *LLMAnalyzer {
	return &LLMAnalyzer{provider: provider}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, turns []llm.Message) Delta {
	if len(turns) < minMessagesForLLM {
		return Delta{}
	}

	var userMessages []string
	for _, turn := range turns {
		if turn.Role == "user" {
			userMessages = append(userMessages, turn.Content)
		}
	}
	if len(userMessages) == 0 {
		return Delta{}
	}
	if len(userMessages) > llmRecentMessages {
		userMessages = userMessages[len(userMessages)-llmRecentMessages:]
	}

	prompt := strings.Replace(analysisPromptTemplate, "%MESSAGES%", strings.Join(userMessages, "\n"), 1)
	messages := []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: prompt},
	}

	response, err := a.provider.Chat(ctx, messages, llm.WithReasoningEffort("high"))
	if err != nil {
		return Delta{}
	}

	// Models often wrap the JSON in prose; extract the outermost braces.
	jsonBlock := jsonBlockPattern.FindString(response)
	if jsonBlock == "" {
		return Delta{}
	}

	var result llmAnalysisResult
	if err := json.Unmarshal([]byte(jsonBlock), &result); err != nil {
		return Delta{}
	}

	return Delta{
		Interests:             result.Interests,
		PersonalityTraits:     result.PersonalityTraits,
		CommunicationPatterns: result.CommunicationPatterns,
		PreferredStyle:        result.PreferredResponseStyle,
	}
}
