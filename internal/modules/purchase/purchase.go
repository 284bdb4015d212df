package purchase

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mentorsed/core/internal/middleware"
	"github.com/mentorsed/core/internal/models"
	"github.com/mentorsed/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service owns purchase rows and answers entitlement checks for the rest of
// the app (the tutor gates on HasAccess before doing anything else).
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// HasAccess reports whether the user owns the course.
func (s *Service) HasAccess(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PurchaseModel{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Grant records a purchase. Insert-if-absent: replaying a payment event for
// the same (user, course) is a no-op.
func (s *Service) Grant(ctx context.Context, userID, courseID string) (*models.PurchaseModel, error) {
	p := models.PurchaseModel{UserID: userID, CourseID: courseID}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		FirstOrCreate(&p).Error
	return &p, err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/courses/:courseId/checkout", authMW, h.checkout)
	rg.GET("/courses/:courseId/purchase", authMW, h.getPurchase)
}

// Payment-provider integration lives outside this service; checkout here
// records the purchase directly once the caller is authenticated.
func (h *Handler) checkout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	courseID := c.Param("courseId")

	var course models.CourseModel
	if err := h.svc.db.First(&course, "id = ? AND is_published = ?", courseID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	p, err := h.svc.Grant(c.Request.Context(), userID, courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) getPurchase(c *gin.Context) {
	ok, err := h.svc.HasAccess(c.Request.Context(), middleware.CurrentUserID(c), c.Param("courseId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"purchased": ok})
}
