package catalog

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mentorsed/core/internal/middleware"
	"github.com/mentorsed/core/internal/pkg/response"
)

// Entitlements is satisfied by the purchase service.
type Entitlements interface {
	HasAccess(ctx context.Context, userID, courseID string) (bool, error)
}

type Handler struct {
	svc    *Service
	access Entitlements
}

func NewHandler(svc *Service, access Entitlements) *Handler {
	return &Handler{svc: svc, access: access}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/courses", h.listCourses)
	rg.GET("/courses/:courseId", h.getCourse)
	rg.GET("/courses/:courseId/chapters/:chapterId", h.getChapter)
	rg.GET("/courses/:courseId/attachments", authMW, h.listAttachments)
	rg.GET("/categories", h.listCategories)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, categories)
}

func (h *Handler) listCourses(c *gin.Context) {
	courses, err := h.svc.ListPublished(c.Request.Context(), c.Query("title"), c.Query("categoryId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, courses)
}

func (h *Handler) getCourse(c *gin.Context) {
	course, err := h.svc.GetCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if course == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, course)
}

// getChapter hides the video stream from learners who neither bought the
// course nor hit a free-preview chapter.
func (h *Handler) getChapter(c *gin.Context) {
	ctx := c.Request.Context()
	courseID := c.Param("courseId")

	chapter, err := h.svc.GetChapter(ctx, courseID, c.Param("chapterId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if chapter == nil {
		response.NotFound(c)
		return
	}

	if !chapter.IsFree {
		userID := middleware.CurrentUserID(c)
		ok := false
		if userID != "" {
			ok, err = h.access.HasAccess(ctx, userID, courseID)
			if err != nil {
				response.InternalError(c, err)
				return
			}
		}
		if !ok {
			chapter.VideoURL = ""
			chapter.MuxData = nil
		}
	}
	response.OK(c, chapter)
}

func (h *Handler) listAttachments(c *gin.Context) {
	ctx := c.Request.Context()
	courseID := c.Param("courseId")

	ok, err := h.access.HasAccess(ctx, middleware.CurrentUserID(c), courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.Forbidden(c, "purchase required")
		return
	}

	attachments, err := h.svc.ListAttachments(ctx, courseID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, attachments)
}
