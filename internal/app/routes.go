package app

import (
	"github.com/gin-gonic/gin"
	"github.com/mentorsed/core/internal/middleware"
	"github.com/mentorsed/core/internal/modules/auth"
	"github.com/mentorsed/core/internal/modules/catalog"
	"github.com/mentorsed/core/internal/modules/progress"
	"github.com/mentorsed/core/internal/modules/purchase"
	"github.com/mentorsed/core/internal/modules/tutor"
	"github.com/mentorsed/core/internal/pkg/mux"
	"github.com/mentorsed/core/internal/pkg/ratelimit"
	pkgredis "github.com/mentorsed/core/internal/pkg/redis"
	"github.com/mentorsed/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	a.router.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	a.router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})
	a.router.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{"name": "mentorsed-core", "env": a.cfg.Env})
	})

	api := a.router.Group("/api/v1")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))

	authMW := middleware.Auth()

	authSvc := auth.NewService(a.db)
	purchaseSvc := purchase.NewService(a.db)
	catalogSvc := catalog.NewService(a.db)
	progressSvc := progress.NewService(a.db)

	muxClient := mux.New(a.cfg.Mux.TokenID, a.cfg.Mux.TokenSecret)
	resolver := tutor.NewSourceResolver(muxClient, a.cfg.Tutor.PreferredLanguage, a.cfg.Tutor.MaxDescriptionChars, a.logger)
	summaries := tutor.NewSummaryCache(tutor.NewSummaryStore(a.db), resolver, a.cfg.Tutor.MaxSourceChars, a.logger)
	tutorSvc := tutor.NewService(
		tutor.NewConversationStore(a.db),
		summaries,
		ratelimit.New(),
		tutor.NewGenerationClient(a.cfg.AI),
		tutor.NewLessonResolver(a.db),
		purchaseSvc,
		a.cfg.Tutor,
		a.logger,
	)

	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)
	catalog.NewHandler(catalogSvc, purchaseSvc).RegisterRoutes(api, authMW)
	purchase.NewHandler(purchaseSvc).RegisterRoutes(api, authMW)
	progress.NewHandler(progressSvc).RegisterRoutes(api, authMW)
	tutor.NewHandler(tutorSvc).RegisterRoutes(api, authMW)
}
