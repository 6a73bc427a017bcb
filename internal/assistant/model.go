package assistant

import (
	"errors"

	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/llm"
)

var ErrInvalidInput = errors.New("invalid assistant request")

// Matcher is the deterministic classifier used when the model is unavailable.
type Matcher interface {
	Match(text string) diagnostic.Result
	Prescribe(category diagnostic.Category) diagnostic.Recommendation
}

// ChatRequest is one visitor message plus the prior conversation.
type ChatRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
}

// ChatReply is what the widget shows. Fallback is set when the reply is canned.
type ChatReply struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

// QuizRequest carries the visitor's free-text quiz answers.
type QuizRequest struct {
	Answers []string `json:"answers"`
}

// Source records which path classified a quiz.
type Source string

const (
	SourceLLM     Source = "llm"
	SourceMatcher Source = "matcher"
)

// QuizResult is the recommended ritual for a completed quiz.
type QuizResult struct {
	Category  diagnostic.Category `json:"category"`
	Treatment string              `json:"treatment"`
	Reasoning string              `json:"reasoning"`
	Oil       string              `json:"oil"`
	Source    Source              `json:"source"`
}
