package routes

import (
	"github.com/gin-gonic/gin"

	"dataanalyzer-ai/backend/analysis"
	"dataanalyzer-ai/backend/config"
	"dataanalyzer-ai/backend/controllers"
	"dataanalyzer-ai/backend/middlewares"
	"dataanalyzer-ai/backend/session"
)

// Register mounts the analyzer at the root and under /api.
func Register(r *gin.Engine, cfg config.Config, store *session.Store, gen *analysis.Generator) {
	for _, prefix := range []string{"/", "/api"} {
		g := r.Group(prefix)
		g.GET("health/", controllers.Health())

		s := g.Group("/")
		s.Use(middlewares.Session(cfg.SessionSecret, cfg.SessionTTL))
		s.POST("upload/", controllers.Upload(cfg, store))
		s.POST("analyze/", controllers.Analyze(cfg, store, gen))
		s.GET("history/", controllers.History())
	}
}
