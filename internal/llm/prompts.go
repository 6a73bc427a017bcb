package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/chat_system.txt
	chatSystemPrompt string
	//go:embed prompts/quiz_system.txt
	quizSystemPrompt string
)

// ChatSystemPrompt returns the persona used for the website chat.
func ChatSystemPrompt() string {
	return strings.TrimSpace(chatSystemPrompt)
}

// QuizSystemPrompt returns the classification prompt listing the allowed categories.
func QuizSystemPrompt(categories []string) string {
	return strings.TrimSpace(strings.ReplaceAll(quizSystemPrompt, "{{CATEGORIES}}", strings.Join(categories, ", ")))
}
