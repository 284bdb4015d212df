package models

// PurchaseModel records that a user owns a course. One row per (user, course).
type PurchaseModel struct {
	Base
	UserID   string `json:"user_id"   gorm:"uniqueIndex:idx_purchase_user_course;not null"`
	CourseID string `json:"course_id" gorm:"uniqueIndex:idx_purchase_user_course;index;not null"`
}

func (PurchaseModel) TableName() string { return "purchases" }

// UserProgressModel tracks per-user chapter completion.
type UserProgressModel struct {
	Base
	UserID      string `json:"user_id"    gorm:"uniqueIndex:idx_progress_user_chapter;not null"`
	ChapterID   string `json:"chapter_id" gorm:"uniqueIndex:idx_progress_user_chapter;index;not null"`
	IsCompleted bool   `json:"is_completed"`
}

func (UserProgressModel) TableName() string { return "user_progress" }
