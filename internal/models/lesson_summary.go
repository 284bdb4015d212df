package models

// LessonSummaryModel caches the AI-generated lesson summary per chapter.
// The row is shared across all learners of the chapter, never per-user.
// Summary and SourceHash are always written together: the hash is the sha256
// digest of the exact source text the summary was generated from.
type LessonSummaryModel struct {
	Base
	ChapterID  string `json:"chapter_id"  gorm:"uniqueIndex;not null"`
	Summary    string `json:"summary"     gorm:"type:text;not null"`
	SourceHash string `json:"source_hash" gorm:"not null"`
}

func (LessonSummaryModel) TableName() string { return "lesson_summaries" }
