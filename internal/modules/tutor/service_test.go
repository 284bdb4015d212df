package tutor

import (
	"context"
	"testing"

	appcfg "github.com/mentorsed/core/internal/config"
	"github.com/mentorsed/core/internal/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	svc       *Service
	store     *memConversationStore
	summaries *memSummaryStore
	generator *stubGenerator
	access    *stubAccess
	lessons   *stubLessons
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	lesson := videoLesson()
	store := newMemConversationStore()
	summaries := newMemSummaryStore()
	generator := &stubGenerator{}
	access := &stubAccess{allowed: true}
	lessons := &stubLessons{lesson: &lesson}

	cfg := appcfg.TutorConfig{
		AskLimit:            20,
		AskWindowSeconds:    60,
		HistoryWindow:       14,
		MaxSourceChars:      20000,
		MaxDescriptionChars: 4000,
		SummaryMaxTokens:    280,
		AnswerMaxTokens:     350,
		PreferredLanguage:   "en",
	}

	cache := NewSummaryCache(summaries, &stubResolver{text: "lesson transcript"}, cfg.MaxSourceChars, zap.NewNop())
	svc := NewService(store, cache, ratelimit.New(), generator, lessons, access, cfg, zap.NewNop())

	return &serviceFixture{
		svc:       svc,
		store:     store,
		summaries: summaries,
		generator: generator,
		access:    access,
		lessons:   lessons,
	}
}

func (f *serviceFixture) threadMessages(t *testing.T, userID, chapterID string) []Message {
	t.Helper()
	threadID, err := f.store.FindThread(context.Background(), userID, chapterID)
	require.NoError(t, err)
	if threadID == "" {
		return nil
	}
	msgs, err := f.store.History(context.Background(), threadID, 100)
	require.NoError(t, err)
	return msgs
}

func TestAskFirstQuestion(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.replies = []string{
		"Closures capture their scope.",
		`{"answer":"A closure keeps its variables alive.","suggestions":[{"label":"Example","question":"Show me one?"}]}`,
	}

	answer, err := f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "What is a closure?")
	require.NoError(t, err)

	assert.Equal(t, "A closure keeps its variables alive.", answer.Text)
	assert.True(t, answer.Structured)
	require.Len(t, answer.Suggestions, 1)

	// First call built the summary, second answered the question.
	require.Len(t, f.generator.calls, 2)
	answerPrompt := f.generator.calls[1]
	require.Len(t, answerPrompt, 2, "system instruction plus the user turn")
	assert.Equal(t, RoleSystem, answerPrompt[0].Role)
	assert.Contains(t, answerPrompt[0].Content, "Closures capture their scope.")
	assert.Equal(t, "What is a closure?", answerPrompt[1].Content)

	msgs := f.threadMessages(t, "u1", "chapter-1")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "A closure keeps its variables alive.", msgs[1].Content)
}

func TestAskReusesCachedSummary(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.replies = []string{
		"summary",
		`{"answer":"first"}`,
		`{"answer":"second"}`,
	}

	_, err := f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q1")
	require.NoError(t, err)
	_, err = f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q2")
	require.NoError(t, err)

	assert.Len(t, f.generator.calls, 3, "one summary call across both questions")
	assert.Equal(t, 1, f.summaries.puts)
}

func TestAskRequiresAuth(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Ask(context.Background(), "", "course-1", "chapter-1", "q")

	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnauthenticated, te.Kind)
	assert.Empty(t, f.generator.calls)
}

func TestAskDeniedWithoutPurchase(t *testing.T) {
	f := newServiceFixture(t)
	f.access.allowed = false

	_, err := f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q")

	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindAccessDenied, te.Kind)
	assert.Empty(t, f.threadMessages(t, "u1", "chapter-1"), "rejected requests persist nothing")
}

func TestAskRateLimited(t *testing.T) {
	f := newServiceFixture(t)
	f.svc.cfg.AskLimit = 1
	f.generator.replies = []string{"summary", `{"answer":"ok"}`}

	_, err := f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q1")
	require.NoError(t, err)

	_, err = f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q2")
	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, te.Kind)
	assert.Greater(t, te.RetryAfter.Seconds(), 0.0)

	msgs := f.threadMessages(t, "u1", "chapter-1")
	assert.Len(t, msgs, 2, "the rejected question was not persisted")
}

func TestAskLessonNotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.lessons.lesson = nil

	_, err := f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q")

	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, te.Kind)
}

func TestAskGenerationFailureKeepsUserTurn(t *testing.T) {
	f := newServiceFixture(t)
	// Summary succeeds, the answer call has no scripted reply and fails.
	f.generator.replies = []string{"summary"}

	_, err := f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q")

	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindGenerationUnavailable, te.Kind)

	msgs := f.threadMessages(t, "u1", "chapter-1")
	require.Len(t, msgs, 1, "question stays, no assistant reply")
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestListHistory(t *testing.T) {
	f := newServiceFixture(t)

	msgs, err := f.svc.ListHistory(context.Background(), "u1", "course-1", "chapter-1")
	require.NoError(t, err)
	assert.Empty(t, msgs, "no thread yet returns an empty list")

	f.generator.replies = []string{"summary", `{"answer":"reply"}`}
	_, err = f.svc.Ask(context.Background(), "u1", "course-1", "chapter-1", "q")
	require.NoError(t, err)

	msgs, err = f.svc.ListHistory(context.Background(), "u1", "course-1", "chapter-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt), "oldest first")
}

func TestListHistoryDenied(t *testing.T) {
	f := newServiceFixture(t)
	f.access.allowed = false

	_, err := f.svc.ListHistory(context.Background(), "u1", "course-1", "chapter-1")

	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindAccessDenied, te.Kind)
}
