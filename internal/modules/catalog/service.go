package catalog

import (
	"context"
	"errors"

	"github.com/mentorsed/core/internal/models"
	"gorm.io/gorm"
)

// Service is a thin read layer over the course catalog. Authoring (create,
// publish, reorder, video ingest) is handled by the teacher dashboard service
// and is out of scope here.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListPublished returns published courses, optionally filtered by title
// search and category.
func (s *Service) ListPublished(ctx context.Context, search, categoryID string) ([]models.CourseModel, error) {
	tx := s.db.WithContext(ctx).
		Where("is_published = ?", true).
		Preload("Category").
		Order("created_at DESC")
	if search != "" {
		tx = tx.Where("title LIKE ?", "%"+search+"%")
	}
	if categoryID != "" {
		tx = tx.Where("category_id = ?", categoryID)
	}
	var courses []models.CourseModel
	return courses, tx.Find(&courses).Error
}

// GetCourse returns one published course with its published chapters in
// position order. Returns nil when absent.
func (s *Service) GetCourse(ctx context.Context, courseID string) (*models.CourseModel, error) {
	var course models.CourseModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_published = ?", courseID, true).
		Preload("Chapters", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Category").
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// GetChapter returns one published chapter of a published course, with its
// Mux playback data. Returns nil when absent.
func (s *Service) GetChapter(ctx context.Context, courseID, chapterID string) (*models.ChapterModel, error) {
	var chapter models.ChapterModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND course_id = ? AND is_published = ?", chapterID, courseID, true).
		Preload("MuxData").
		First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chapter, nil
}

// ListCategories returns all categories sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.CategoryModel, error) {
	var categories []models.CategoryModel
	return categories, s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
}

// ListAttachments returns the attachments of a course.
func (s *Service) ListAttachments(ctx context.Context, courseID string) ([]models.AttachmentModel, error) {
	var attachments []models.AttachmentModel
	return attachments, s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&attachments).Error
}
