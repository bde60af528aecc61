package bootstrap

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/brainbee-training/brainbee-backend/internal/api/http"
	"github.com/brainbee-training/brainbee-backend/internal/api/http/middleware"
	"github.com/brainbee-training/brainbee-backend/internal/feedback"
	"github.com/brainbee-training/brainbee-backend/internal/quiz"
	"github.com/brainbee-training/brainbee-backend/internal/sessions"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	APIKey      string
	TemplateDir string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Quiz        quiz.Generator
	Sessions    *sessions.Repo
	Recorder    *feedback.Recorder
	Archive     feedback.ArchiveSource
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	// LoadHTMLGlob panics on an empty glob, so the page is only mounted when
	// templates are actually present.
	if dep.TemplateDir != "" {
		if pages, _ := filepath.Glob(filepath.Join(dep.TemplateDir, "*.html")); len(pages) > 0 {
			r.LoadHTMLGlob(filepath.Join(dep.TemplateDir, "*.html"))
			r.GET("/", func(c *gin.Context) {
				c.HTML(http.StatusOK, "index.html", gin.H{"categories": quiz.Categories})
			})
		}
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	quizGroup := api.Group("/quiz")
	quizGroup.Use(middleware.SessionMiddleware())
	quiz.Register(quizGroup, dep.Quiz, dep.Sessions, dep.Recorder)

	analytics := api.Group("/analytics")
	analytics.Use(middleware.APIKeyMiddleware(dep.APIKey))
	feedback.RegisterAnalytics(analytics, dep.Recorder, dep.Archive)

	return r
}
