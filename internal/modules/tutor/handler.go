package tutor

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentorsed/core/internal/middleware"
	"github.com/mentorsed/core/internal/pkg/response"
)

type askDTO struct {
	CourseID  string `json:"courseId"  binding:"required"`
	ChapterID string `json:"chapterId" binding:"required"`
	Message   string `json:"message"   binding:"required"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/ai", authMW)
	g.GET("/chat", h.getHistory)
	g.POST("/chat", h.postChat)
}

// GET /ai/chat?courseId=...&chapterId=...
func (h *Handler) getHistory(c *gin.Context) {
	courseID := c.Query("courseId")
	chapterID := c.Query("chapterId")
	if courseID == "" || chapterID == "" {
		response.BadRequest(c, "courseId and chapterId are required")
		return
	}

	messages, err := h.svc.ListHistory(c.Request.Context(), middleware.CurrentUserID(c), courseID, chapterID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"messages": messages})
}

// POST /ai/chat
func (h *Handler) postChat(c *gin.Context) {
	var dto askDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "courseId, chapterId and message are required")
		return
	}
	if strings.TrimSpace(dto.Message) == "" {
		response.BadRequest(c, "message must not be empty")
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), middleware.CurrentUserID(c), dto.CourseID, dto.ChapterID, dto.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, answer)
}

func (h *Handler) fail(c *gin.Context, err error) {
	te, ok := AsError(err)
	if !ok {
		response.InternalError(c, err)
		return
	}

	switch te.Kind {
	case KindUnauthenticated:
		response.Unauthorized(c)
	case KindAccessDenied:
		response.Forbidden(c, te.Message)
	case KindNotFound:
		response.NotFoundMsg(c, te.Message)
	case KindRateLimited:
		response.TooManyRequests(c, te.Message, te.RetryAfter)
	case KindGenerationUnavailable:
		response.ServiceUnavailable(c, te.Message)
	default:
		response.InternalError(c, te)
	}
}
