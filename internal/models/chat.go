package models

// ChatThreadModel is the persistent tutor conversation between one user and one
// chapter. Created lazily on the first message, never deleted by the tutor.
type ChatThreadModel struct {
	Base
	UserID    string `json:"user_id"    gorm:"uniqueIndex:idx_thread_user_chapter;not null"`
	ChapterID string `json:"chapter_id" gorm:"uniqueIndex:idx_thread_user_chapter;index;not null"`
	CourseID  string `json:"course_id"  gorm:"index;not null"`
}

func (ChatThreadModel) TableName() string { return "chat_threads" }

// ChatMessageModel is one turn in a thread. The log is append-only; rows are
// never mutated after insert.
type ChatMessageModel struct {
	Base
	ThreadID string `json:"thread_id" gorm:"index;not null"`
	Role     string `json:"role"      gorm:"not null"` // "user" | "assistant"
	Content  string `json:"content"   gorm:"type:longtext;not null"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }
