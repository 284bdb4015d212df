package tutor

import (
	"context"
	"errors"

	"github.com/mentorsed/core/internal/models"
	"gorm.io/gorm"
)

// gormConversationStore persists threads and messages with GORM.
type gormConversationStore struct{ db *gorm.DB }

// NewConversationStore returns the MySQL-backed conversation store.
func NewConversationStore(db *gorm.DB) ConversationStore {
	return &gormConversationStore{db: db}
}

func (s *gormConversationStore) EnsureThread(ctx context.Context, userID, courseID, chapterID string) (string, error) {
	thread := models.ChatThreadModel{UserID: userID, ChapterID: chapterID, CourseID: courseID}
	// Single conditional write; the unique (user, chapter) index resolves
	// concurrent first-message races to one row.
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		FirstOrCreate(&thread).Error
	return thread.ID, err
}

func (s *gormConversationStore) FindThread(ctx context.Context, userID, chapterID string) (string, error) {
	var thread models.ChatThreadModel
	err := s.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return thread.ID, nil
}

func (s *gormConversationStore) Append(ctx context.Context, threadID string, role Role, content string) error {
	msg := models.ChatMessageModel{ThreadID: threadID, Role: string(role), Content: content}
	return s.db.WithContext(ctx).Create(&msg).Error
}

func (s *gormConversationStore) Recent(ctx context.Context, threadID string, limit int) ([]Message, error) {
	var rows []models.ChatMessageModel
	err := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// Newest-first from the store; reverse to chronological for the prompt.
	messages := make([]Message, len(rows))
	for i, row := range rows {
		messages[len(rows)-1-i] = toMessage(row)
	}
	return messages, nil
}

func (s *gormConversationStore) History(ctx context.Context, threadID string, limit int) ([]Message, error) {
	var rows []models.ChatMessageModel
	err := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	messages := make([]Message, len(rows))
	for i, row := range rows {
		messages[i] = toMessage(row)
	}
	return messages, nil
}

func toMessage(row models.ChatMessageModel) Message {
	return Message{Role: Role(row.Role), Content: row.Content, CreatedAt: row.CreatedAt}
}

// gormSummaryStore persists one summary row per chapter.
type gormSummaryStore struct{ db *gorm.DB }

// NewSummaryStore returns the MySQL-backed summary store.
func NewSummaryStore(db *gorm.DB) SummaryStore {
	return &gormSummaryStore{db: db}
}

func (s *gormSummaryStore) Get(ctx context.Context, chapterID string) (string, string, bool, error) {
	var row models.LessonSummaryModel
	err := s.db.WithContext(ctx).Where("chapter_id = ?", chapterID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	return row.Summary, row.SourceHash, true, nil
}

func (s *gormSummaryStore) Put(ctx context.Context, chapterID, summary, sourceHash string) error {
	row := models.LessonSummaryModel{ChapterID: chapterID, Summary: summary, SourceHash: sourceHash}
	// Upsert in one statement so summary and hash always land together.
	return s.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Assign(models.LessonSummaryModel{ChapterID: chapterID, Summary: summary, SourceHash: sourceHash}).
		FirstOrCreate(&row).Error
}

// gormLessonResolver joins chapter, course and mux rows into the Lesson view.
type gormLessonResolver struct{ db *gorm.DB }

// NewLessonResolver returns the MySQL-backed lesson resolver.
func NewLessonResolver(db *gorm.DB) LessonResolver {
	return &gormLessonResolver{db: db}
}

func (r *gormLessonResolver) Lesson(ctx context.Context, courseID, chapterID string) (*Lesson, error) {
	var chapter models.ChapterModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ? AND is_published = ?", chapterID, courseID, true).
		Preload("MuxData").
		First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var course models.CourseModel
	err = r.db.WithContext(ctx).
		Select("id, title").
		Where("id = ? AND is_published = ?", courseID, true).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	lesson := &Lesson{
		CourseID:     courseID,
		ChapterID:    chapterID,
		CourseTitle:  course.Title,
		ChapterTitle: chapter.Title,
		Description:  chapter.Description,
	}
	if chapter.MuxData != nil {
		lesson.AssetID = chapter.MuxData.AssetID
		lesson.PlaybackID = chapter.MuxData.PlaybackID
	}
	return lesson, nil
}
