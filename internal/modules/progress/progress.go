package progress

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mentorsed/core/internal/middleware"
	"github.com/mentorsed/core/internal/models"
	"github.com/mentorsed/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// SetCompleted upserts the completion flag for one (user, chapter).
func (s *Service) SetCompleted(ctx context.Context, userID, chapterID string, completed bool) error {
	p := models.UserProgressModel{UserID: userID, ChapterID: chapterID, IsCompleted: completed}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		Assign(map[string]interface{}{"is_completed": completed}).
		FirstOrCreate(&p).Error
}

// CoursePercentage returns completed published chapters / total, 0-100.
func (s *Service) CoursePercentage(ctx context.Context, userID, courseID string) (int, error) {
	var chapterIDs []string
	if err := s.db.WithContext(ctx).Model(&models.ChapterModel{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Pluck("id", &chapterIDs).Error; err != nil {
		return 0, err
	}
	if len(chapterIDs) == 0 {
		return 0, nil
	}

	var completed int64
	if err := s.db.WithContext(ctx).Model(&models.UserProgressModel{}).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ?", userID, chapterIDs, true).
		Count(&completed).Error; err != nil {
		return 0, err
	}
	return int(completed * 100 / int64(len(chapterIDs))), nil
}

type progressDTO struct {
	IsCompleted bool `json:"is_completed"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.PUT("/chapters/:chapterId/progress", authMW, h.setProgress)
	rg.GET("/courses/:courseId/progress", authMW, h.courseProgress)
}

func (h *Handler) setProgress(c *gin.Context) {
	var dto progressDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := middleware.CurrentUserID(c)
	if err := h.svc.SetCompleted(c.Request.Context(), userID, c.Param("chapterId"), dto.IsCompleted); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"is_completed": dto.IsCompleted})
}

func (h *Handler) courseProgress(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	pct, err := h.svc.CoursePercentage(c.Request.Context(), userID, c.Param("courseId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"percentage": pct})
}
