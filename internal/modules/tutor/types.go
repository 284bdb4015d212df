package tutor

import (
	"context"
	"time"
)

// Role of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a thread as exposed to callers and the context
// window. CreatedAt reflects persisted append order.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PromptMessage is one entry of the generation request.
type PromptMessage struct {
	Role    Role
	Content string
}

// Suggestion is a follow-up question the tutor proposes to the learner.
type Suggestion struct {
	Label    string `json:"label"`
	Question string `json:"question"`
}

// Answer is the parsed tutor reply. Structured reports whether the model
// returned the expected JSON shape; when false the reply is the raw model
// text and Suggestions is empty.
type Answer struct {
	Text        string       `json:"answer"`
	Suggestions []Suggestion `json:"suggestions"`
	Structured  bool         `json:"-"`
}

// Lesson is the resolved view of a chapter the tutor operates on. Transient,
// recomputed per request.
type Lesson struct {
	CourseID     string
	ChapterID    string
	CourseTitle  string
	ChapterTitle string
	Description  string
	AssetID      string
	PlaybackID   string
}

// ConversationStore is the append-only message log per (user, chapter)
// thread.
type ConversationStore interface {
	// EnsureThread upserts the thread and returns its id.
	EnsureThread(ctx context.Context, userID, courseID, chapterID string) (string, error)
	// FindThread returns the thread id, or "" when the user never wrote to
	// this chapter.
	FindThread(ctx context.Context, userID, chapterID string) (string, error)
	Append(ctx context.Context, threadID string, role Role, content string) error
	// Recent returns up to limit newest messages in chronological order.
	Recent(ctx context.Context, threadID string, limit int) ([]Message, error)
	// History returns up to limit oldest messages in chronological order.
	History(ctx context.Context, threadID string, limit int) ([]Message, error)
}

// SummaryStore persists one cached summary per chapter. Summary and source
// hash are written together, never independently.
type SummaryStore interface {
	Get(ctx context.Context, chapterID string) (summary, sourceHash string, ok bool, err error)
	Put(ctx context.Context, chapterID, summary, sourceHash string) error
}

// SourceResolver produces the best-available lesson source text.
type SourceResolver interface {
	Resolve(ctx context.Context, lesson Lesson) string
}

// TranscriptProvider lists and downloads auto-generated captions.
type TranscriptProvider interface {
	GeneratedTextTrackID(ctx context.Context, assetID, preferredLanguage string) (string, error)
	TranscriptText(ctx context.Context, playbackID, trackID string) (string, error)
}

// LessonResolver loads the Lesson view for a (course, chapter) pair. Returns
// nil when either is missing or unpublished.
type LessonResolver interface {
	Lesson(ctx context.Context, courseID, chapterID string) (*Lesson, error)
}

// Entitlements answers whether a user may talk to the tutor about a course.
type Entitlements interface {
	HasAccess(ctx context.Context, userID, courseID string) (bool, error)
}

// Generator is one synchronous call to the external text-generation service.
type Generator interface {
	Complete(ctx context.Context, messages []PromptMessage, maxTokens int, temperature float64) (string, error)
}
