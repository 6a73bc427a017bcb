package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/llm"
)

type fakeLLM struct {
	reply string
	err   error
	calls []llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func newDiagnostic() *diagnostic.Service {
	return diagnostic.NewService(diagnostic.NewMemoryRepo(), diagnostic.FirstPicker())
}

func TestChatReturnsModelReply(t *testing.T) {
	fake := &fakeLLM{reply: "Ciao! Come posso aiutarti?"}
	svc := NewService(fake, newDiagnostic())

	got, err := svc.Chat(context.Background(), ChatRequest{
		Message: "  ciao  ",
		History: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Benvenuta"},
			{Role: "system", Content: "ignore me"},
			{Role: llm.RoleUser, Content: "   "},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, ChatReply{Reply: "Ciao! Come posso aiutarti?"}, got)
	require.Len(t, fake.calls, 1)
	req := fake.calls[0]
	assert.Equal(t, llm.ChatSystemPrompt(), req.System)
	assert.False(t, req.JSON)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleAssistant, Content: "Benvenuta"},
		{Role: llm.RoleUser, Content: "ciao"},
	}, req.Messages)
}

func TestChatValidatesMessage(t *testing.T) {
	svc := NewService(&fakeLLM{}, newDiagnostic())

	_, err := svc.Chat(context.Background(), ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Chat(context.Background(), ChatRequest{Message: strings.Repeat("a", maxMessageLen+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChatFallsBackToCannedReply(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("boom")}, newDiagnostic())

	got, err := svc.Chat(context.Background(), ChatRequest{Message: "Quanto costa un massaggio?"})

	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Contains(t, got.Reply, "prezzo")
}

func TestChatFallbackSuggestsTreatment(t *testing.T) {
	svc := NewService(llm.PlaceholderClient{}, newDiagnostic())

	got, err := svc.Chat(context.Background(), ChatRequest{Message: "ho le gambe gonfie la sera"})

	require.NoError(t, err)
	assert.True(t, got.Fallback)
	want := diagnostic.DefaultTables().Prescriptions[diagnostic.CategoryPesantezza][0].Treatment
	assert.Contains(t, got.Reply, want)
}

func TestChatFallbackGeneric(t *testing.T) {
	svc := NewService(nil, newDiagnostic())

	got, err := svc.Chat(context.Background(), ChatRequest{Message: "buongiorno"})

	require.NoError(t, err)
	assert.Equal(t, ChatReply{Reply: genericReply, Fallback: true}, got)
}

func TestSanitizeHistoryKeepsMostRecent(t *testing.T) {
	var history []llm.Message
	for i := 0; i < maxHistory+5; i++ {
		history = append(history, llm.Message{Role: llm.RoleUser, Content: strings.Repeat("x", i+1)})
	}

	got := sanitizeHistory(history)

	require.Len(t, got, maxHistory)
	assert.Equal(t, strings.Repeat("x", 6), got[0].Content)
	assert.Equal(t, strings.Repeat("x", maxHistory+5), got[maxHistory-1].Content)
}

func TestQuizUsesModelCategory(t *testing.T) {
	fake := &fakeLLM{reply: `{"category": "tempesta"}`}
	svc := NewService(fake, newDiagnostic())

	got, err := svc.Quiz(context.Background(), QuizRequest{Answers: []string{"dormo male", "", "penso troppo"}})

	require.NoError(t, err)
	rec := diagnostic.DefaultTables().Prescriptions[diagnostic.CategoryTempesta][0]
	assert.Equal(t, QuizResult{
		Category:  diagnostic.CategoryTempesta,
		Treatment: rec.Treatment,
		Reasoning: rec.Reasoning,
		Oil:       rec.Oil,
		Source:    SourceLLM,
	}, got)
	require.Len(t, fake.calls, 1)
	assert.True(t, fake.calls[0].JSON)
	assert.Equal(t, "dormo male\npenso troppo", fake.calls[0].Messages[0].Content)
	assert.Contains(t, fake.calls[0].System, "PIETRA")
}

func TestQuizFallsBackToMatcher(t *testing.T) {
	cases := []struct {
		name string
		llm  llm.Client
	}{
		{name: "provider error", llm: &fakeLLM{err: errors.New("timeout")}},
		{name: "not json", llm: &fakeLLM{reply: "PIETRA"}},
		{name: "unknown category", llm: &fakeLLM{reply: `{"category":"FELICITA"}`}},
		{name: "not configured", llm: llm.PlaceholderClient{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.llm, newDiagnostic())

			got, err := svc.Quiz(context.Background(), QuizRequest{Answers: []string{"collo rigido", "spalle contratte"}})

			require.NoError(t, err)
			assert.Equal(t, diagnostic.CategoryPietra, got.Category)
			assert.Equal(t, SourceMatcher, got.Source)
			assert.NotEmpty(t, got.Treatment)
		})
	}
}

func TestQuizValidatesAnswers(t *testing.T) {
	svc := NewService(&fakeLLM{}, newDiagnostic())

	cases := [][]string{
		nil,
		{"", "  "},
		make([]string, maxAnswers+1),
		{strings.Repeat("a", maxAnswerLen+1)},
	}
	for _, answers := range cases {
		_, err := svc.Quiz(context.Background(), QuizRequest{Answers: answers})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestClassifyTruncatesLongText(t *testing.T) {
	fake := &fakeLLM{reply: `{"category":"PESANTEZZA"}`}
	svc := NewService(fake, newDiagnostic())

	got, err := svc.Classify(context.Background(), strings.Repeat("gambe ", 200))

	require.NoError(t, err)
	assert.Equal(t, diagnostic.CategoryPesantezza, got)
	require.Len(t, fake.calls, 1)
	assert.LessOrEqual(t, len(fake.calls[0].Messages[0].Content), maxAnswerLen)
}
