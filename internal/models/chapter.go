package models

// ChapterModel is a single lesson inside a course.
type ChapterModel struct {
	Base
	CourseID    string `json:"course_id"   gorm:"index;not null"`
	Title       string `json:"title"       gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	VideoURL    string `json:"video_url"   gorm:"type:text"`
	Position    int    `json:"position"`
	IsPublished bool   `json:"is_published"`
	IsFree      bool   `json:"is_free"`

	MuxData *MuxDataModel `json:"mux_data,omitempty" gorm:"foreignKey:ChapterID"`
}

func (ChapterModel) TableName() string { return "chapters" }

// MuxDataModel links a chapter to its Mux video asset.
type MuxDataModel struct {
	Base
	ChapterID  string `json:"chapter_id"  gorm:"uniqueIndex;not null"`
	AssetID    string `json:"asset_id"    gorm:"not null"`
	PlaybackID string `json:"playback_id"`
}

func (MuxDataModel) TableName() string { return "mux_data" }
