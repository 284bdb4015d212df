package models

// CategoryModel groups courses for browsing.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (CategoryModel) TableName() string { return "categories" }

// CourseModel is a sellable course owned by a teacher account.
type CourseModel struct {
	Base
	UserID      string  `json:"user_id"     gorm:"index;not null"`
	Title       string  `json:"title"       gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
	IsPublished bool    `json:"is_published" gorm:"index"`
	CategoryID  *string `json:"category_id"  gorm:"index"`

	Category    *CategoryModel    `json:"category,omitempty"    gorm:"foreignKey:CategoryID"`
	Chapters    []ChapterModel    `json:"chapters,omitempty"    gorm:"foreignKey:CourseID"`
	Attachments []AttachmentModel `json:"attachments,omitempty" gorm:"foreignKey:CourseID"`
}

func (CourseModel) TableName() string { return "courses" }

// AttachmentModel is a downloadable resource attached to a course.
type AttachmentModel struct {
	Base
	CourseID string `json:"course_id" gorm:"index;not null"`
	Name     string `json:"name"      gorm:"not null"`
	URL      string `json:"url"       gorm:"type:text;not null"`
}

func (AttachmentModel) TableName() string { return "attachments" }
