package tutor

import "context"

// ContextAssembler builds the bounded prompt context: one system instruction
// followed by the newest window of prior turns in chronological order. The
// window is a hard message cap, not a token budget; older turns silently fall
// out of context while staying in persisted history.
type ContextAssembler struct {
	store  ConversationStore
	window int
}

func NewContextAssembler(store ConversationStore, window int) *ContextAssembler {
	return &ContextAssembler{store: store, window: window}
}

// Build returns at most window+1 prompt messages.
func (a *ContextAssembler) Build(ctx context.Context, threadID string, lesson Lesson, summary string) ([]PromptMessage, error) {
	recent, err := a.store.Recent(ctx, threadID, a.window)
	if err != nil {
		return nil, errInternal(err)
	}

	messages := make([]PromptMessage, 0, len(recent)+1)
	messages = append(messages, PromptMessage{
		Role:    RoleSystem,
		Content: buildAnswerSystemPrompt(lesson, summary),
	})
	for _, m := range recent {
		messages = append(messages, PromptMessage{Role: m.Role, Content: m.Content})
	}
	return messages, nil
}
