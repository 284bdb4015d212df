package tutor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memConversationStore is an in-memory ConversationStore for service tests.
type memConversationStore struct {
	mu       sync.Mutex
	nextID   int
	threads  map[string]string // "user|chapter" -> thread id
	courses  map[string]string // thread id -> course id
	messages map[string][]Message
	now      time.Time
}

func newMemConversationStore() *memConversationStore {
	return &memConversationStore{
		threads:  make(map[string]string),
		courses:  make(map[string]string),
		messages: make(map[string][]Message),
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memConversationStore) EnsureThread(_ context.Context, userID, courseID, chapterID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "|" + chapterID
	if id, ok := s.threads[key]; ok {
		return id, nil
	}
	s.nextID++
	id := fmt.Sprintf("thread-%d", s.nextID)
	s.threads[key] = id
	s.courses[id] = courseID
	return id, nil
}

func (s *memConversationStore) FindThread(_ context.Context, userID, chapterID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threads[userID+"|"+chapterID], nil
}

func (s *memConversationStore) Append(_ context.Context, threadID string, role Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Second)
	s.messages[threadID] = append(s.messages[threadID], Message{Role: role, Content: content, CreatedAt: s.now})
	return nil
}

func (s *memConversationStore) Recent(_ context.Context, threadID string, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.messages[threadID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]Message, len(all))
	copy(out, all)
	return out, nil
}

func (s *memConversationStore) History(_ context.Context, threadID string, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.messages[threadID]
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]Message, len(all))
	copy(out, all)
	return out, nil
}

// memSummaryStore is an in-memory SummaryStore.
type memSummaryStore struct {
	mu        sync.Mutex
	summaries map[string]string
	hashes    map[string]string
	puts      int
}

func newMemSummaryStore() *memSummaryStore {
	return &memSummaryStore{summaries: make(map[string]string), hashes: make(map[string]string)}
}

func (s *memSummaryStore) Get(_ context.Context, chapterID string) (string, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.summaries[chapterID]
	return summary, s.hashes[chapterID], ok, nil
}

func (s *memSummaryStore) Put(_ context.Context, chapterID, summary, sourceHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[chapterID] = summary
	s.hashes[chapterID] = sourceHash
	s.puts++
	return nil
}

// stubResolver returns a fixed source text.
type stubResolver struct {
	text string
}

func (r *stubResolver) Resolve(context.Context, Lesson) string { return r.text }

// stubTranscripts scripts the transcript provider.
type stubTranscripts struct {
	trackID    string
	trackErr   error
	text       string
	textErr    error
	listCalls  int
	fetchCalls int
}

func (p *stubTranscripts) GeneratedTextTrackID(_ context.Context, _, _ string) (string, error) {
	p.listCalls++
	return p.trackID, p.trackErr
}

func (p *stubTranscripts) TranscriptText(_ context.Context, _, _ string) (string, error) {
	p.fetchCalls++
	return p.text, p.textErr
}

// stubGenerator replays scripted completions in order and records prompts.
type stubGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]PromptMessage
}

func (g *stubGenerator) Complete(_ context.Context, messages []PromptMessage, _ int, _ float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, messages)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", fmt.Errorf("no scripted reply")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

// stubLessons resolves every request to one lesson, or nil when unset.
type stubLessons struct {
	lesson *Lesson
}

func (l *stubLessons) Lesson(context.Context, string, string) (*Lesson, error) {
	return l.lesson, nil
}

// stubAccess grants or denies everything.
type stubAccess struct {
	allowed bool
}

func (a *stubAccess) HasAccess(context.Context, string, string) (bool, error) {
	return a.allowed, nil
}
