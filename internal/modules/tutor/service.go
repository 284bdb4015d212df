package tutor

import (
	"context"
	"strings"

	appcfg "github.com/mentorsed/core/internal/config"
	"github.com/mentorsed/core/internal/pkg/ratelimit"
	"go.uber.org/zap"
)

const historyLimit = 50

// Service orchestrates one tutor request end to end: entitlement and rate
// gates, user-turn persistence, summary cache, context assembly, generation,
// parsing, assistant-turn persistence.
//
// The user turn is not rolled back when a later step fails: a question with
// no matching reply stays visible in history, by design. Concurrent asks on
// the same thread are not serialized; both read the same preceding history
// and may append in either order (conversational UIs keep one question in
// flight, the store tolerates more).
type Service struct {
	store     ConversationStore
	summaries *SummaryCache
	assembler *ContextAssembler
	limiter   *ratelimit.Limiter
	generator Generator
	lessons   LessonResolver
	access    Entitlements
	cfg       appcfg.TutorConfig
	log       *zap.Logger
}

func NewService(
	store ConversationStore,
	summaries *SummaryCache,
	limiter *ratelimit.Limiter,
	generator Generator,
	lessons LessonResolver,
	access Entitlements,
	cfg appcfg.TutorConfig,
	log *zap.Logger,
) *Service {
	return &Service{
		store:     store,
		summaries: summaries,
		assembler: NewContextAssembler(store, cfg.HistoryWindow),
		limiter:   limiter,
		generator: generator,
		lessons:   lessons,
		access:    access,
		cfg:       cfg,
		log:       log,
	}
}

// ListHistory returns the persisted conversation for (user, chapter), oldest
// first. A user who never asked anything gets an empty list, not an error.
func (s *Service) ListHistory(ctx context.Context, userID, courseID, chapterID string) ([]Message, error) {
	if userID == "" {
		return nil, errUnauthenticated()
	}
	if err := s.checkAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}

	threadID, err := s.store.FindThread(ctx, userID, chapterID)
	if err != nil {
		return nil, errInternal(err)
	}
	if threadID == "" {
		return []Message{}, nil
	}

	messages, err := s.store.History(ctx, threadID, historyLimit)
	if err != nil {
		return nil, errInternal(err)
	}
	return messages, nil
}

// Ask runs the full question pipeline and returns the parsed answer.
func (s *Service) Ask(ctx context.Context, userID, courseID, chapterID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if userID == "" {
		return nil, errUnauthenticated()
	}

	// Gates run before any state mutation: a rejected request persists
	// nothing and costs nothing.
	if err := s.checkAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}

	if res := s.limiter.Allow("tutor:ask:"+userID, s.cfg.AskLimit, s.cfg.AskWindow()); !res.Allowed {
		return nil, errRateLimited(res.RetryAfter)
	}

	lesson, err := s.lessons.Lesson(ctx, courseID, chapterID)
	if err != nil {
		return nil, errInternal(err)
	}
	if lesson == nil {
		return nil, errNotFound("lesson")
	}

	threadID, err := s.store.EnsureThread(ctx, userID, courseID, chapterID)
	if err != nil {
		return nil, errInternal(err)
	}
	if err := s.store.Append(ctx, threadID, RoleUser, question); err != nil {
		return nil, errInternal(err)
	}

	// From here on the user turn is committed; failures leave it dangling.
	summary, err := s.summaries.GetOrBuild(ctx, *lesson, s.generateSummary)
	if err != nil {
		return nil, s.asGenerationFailure(err, *lesson, "summary")
	}

	prompt, err := s.assembler.Build(ctx, threadID, *lesson, summary)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Complete(ctx, prompt, s.cfg.AnswerMaxTokens, 0.2)
	if err != nil {
		return nil, s.asGenerationFailure(err, *lesson, "answer")
	}

	answer := ParseAnswer(raw)
	if !answer.Structured {
		s.log.Warn("tutor reply was not structured JSON",
			zap.String("chapter_id", lesson.ChapterID))
	}

	if err := s.store.Append(ctx, threadID, RoleAssistant, answer.Text); err != nil {
		return nil, errInternal(err)
	}
	return &answer, nil
}

func (s *Service) checkAccess(ctx context.Context, userID, courseID string) error {
	ok, err := s.access.HasAccess(ctx, userID, courseID)
	if err != nil {
		return errInternal(err)
	}
	if !ok {
		return errAccessDenied()
	}
	return nil
}

func (s *Service) generateSummary(ctx context.Context, instruction, content string) (string, error) {
	messages := []PromptMessage{
		{Role: RoleSystem, Content: instruction},
		{Role: RoleUser, Content: content},
	}
	return s.generator.Complete(ctx, messages, s.cfg.SummaryMaxTokens, 0.2)
}

// asGenerationFailure keeps tutor.Error values (e.g. Internal from the
// summary store) intact and wraps everything else as a generation failure.
func (s *Service) asGenerationFailure(err error, lesson Lesson, step string) error {
	if te, ok := AsError(err); ok {
		return te
	}
	s.log.Warn("generation failed",
		zap.String("chapter_id", lesson.ChapterID),
		zap.String("step", step),
		zap.Error(err))
	return errGenerationUnavailable(err)
}
