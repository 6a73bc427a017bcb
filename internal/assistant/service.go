package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/llm"
	"ritual-backend/internal/shared/metrics"
	"ritual-backend/internal/shared/telemetry"
)

const (
	maxMessageLen  = 1000
	maxHistory     = 10
	maxAnswers     = 20
	maxAnswerLen   = 500
	defaultTimeout = 20 * time.Second
	chatTemp       = 0.7
	chatMaxTokens  = 400
	quizMaxTokens  = 50
)

// Service answers chat messages and classifies quizzes.
type Service struct {
	LLM     llm.Client
	Matcher Matcher
	Timeout time.Duration
}

func NewService(client llm.Client, matcher Matcher) *Service {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &Service{LLM: client, Matcher: matcher, Timeout: defaultTimeout}
}

// Chat returns a model reply, or a canned reply when the model fails. Only
// invalid input yields an error.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatReply{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(message) > maxMessageLen {
		return ChatReply{}, fmt.Errorf("%w: message is too long", ErrInvalidInput)
	}

	messages := append(sanitizeHistory(req.History), llm.Message{Role: llm.RoleUser, Content: message})
	reply, err := s.complete(ctx, llm.Request{
		System:      llm.ChatSystemPrompt(),
		Messages:    messages,
		Temperature: chatTemp,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		fields := map[string]any{"error": err.Error()}
		if errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Debug("assistant.chat.fallback", fields)
		} else {
			telemetry.Warn("assistant.chat.fallback", fields)
		}
		metrics.IncChatReply(true)
		return ChatReply{Reply: fallbackReply(message, s.Matcher), Fallback: true}, nil
	}

	metrics.IncChatReply(false)
	return ChatReply{Reply: reply}, nil
}

// Quiz asks the model for a category and falls back to the keyword matcher
// over the joined answers when the model fails or answers off-list.
func (s *Service) Quiz(ctx context.Context, req QuizRequest) (QuizResult, error) {
	answers, err := sanitizeAnswers(req.Answers)
	if err != nil {
		return QuizResult{}, err
	}
	joined := strings.Join(answers, "\n")

	if s.Matcher == nil {
		return QuizResult{}, errors.New("assistant matcher not configured")
	}

	raw, err := s.complete(ctx, llm.Request{
		System:    llm.QuizSystemPrompt(categoryNames()),
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: joined}},
		JSON:      true,
		MaxTokens: quizMaxTokens,
	})
	if err == nil {
		category, perr := parseQuizCategory(raw)
		if perr == nil {
			rec := s.Matcher.Prescribe(category)
			return toQuizResult(category, rec, SourceLLM), nil
		}
		err = perr
	}

	if !errors.Is(err, llm.ErrNotConfigured) {
		telemetry.Warn("assistant.quiz.fallback", map[string]any{"error": err.Error()})
	}
	metrics.IncQuizFallback()
	res := s.Matcher.Match(joined)
	return toQuizResult(res.Category, res.Recommendation, SourceMatcher), nil
}

// Classify runs free text through the quiz path, so leads are triaged the
// same way quizzes are. Text beyond one answer's length is dropped.
func (s *Service) Classify(ctx context.Context, text string) (diagnostic.Category, error) {
	text = strings.TrimSpace(text)
	if len(text) > maxAnswerLen {
		text = strings.ToValidUTF8(text[:maxAnswerLen], "")
	}
	res, err := s.Quiz(ctx, QuizRequest{Answers: []string{text}})
	if err != nil {
		return "", err
	}
	return res.Category, nil
}

func (s *Service) complete(ctx context.Context, req llm.Request) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := s.LLM.Complete(ctx, req)
	if !errors.Is(err, llm.ErrNotConfigured) {
		metrics.ObserveLLMDurationMs(metrics.SinceMillis(start))
	}
	return out, err
}

func parseQuizCategory(raw string) (diagnostic.Category, error) {
	var out struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return "", fmt.Errorf("quiz response is not JSON: %w", err)
	}
	return diagnostic.ParseCategory(out.Category)
}

func toQuizResult(category diagnostic.Category, rec diagnostic.Recommendation, source Source) QuizResult {
	return QuizResult{
		Category:  category,
		Treatment: rec.Treatment,
		Reasoning: rec.Reasoning,
		Oil:       rec.Oil,
		Source:    source,
	}
}

func categoryNames() []string {
	cats := diagnostic.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// sanitizeHistory keeps the most recent well-formed turns.
func sanitizeHistory(history []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if content == "" || (m.Role != llm.RoleUser && m.Role != llm.RoleAssistant) {
			continue
		}
		if len(content) > maxMessageLen {
			content = strings.ToValidUTF8(content[:maxMessageLen], "")
		}
		out = append(out, llm.Message{Role: m.Role, Content: content})
	}
	if len(out) > maxHistory {
		out = out[len(out)-maxHistory:]
	}
	return out
}

func sanitizeAnswers(answers []string) ([]string, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: answers are required", ErrInvalidInput)
	}
	if len(answers) > maxAnswers {
		return nil, fmt.Errorf("%w: too many answers", ErrInvalidInput)
	}
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		a = strings.TrimSpace(a)
		if len(a) > maxAnswerLen {
			return nil, fmt.Errorf("%w: answer is too long", ErrInvalidInput)
		}
		if a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: answers are empty", ErrInvalidInput)
	}
	return out, nil
}
