package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// RouterConfig holds the settings NewRouter needs beyond the handler.
type RouterConfig struct {
	CORSOrigin string
	Logger     *slog.Logger
}

// NewRouter wires the routes. authMW guards everything under /api except
// the public leaderboard.
func NewRouter(h *Handler, authMW gin.HandlerFunc, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(recovery(logger), requestLogger(logger), securityHeaders(), cors(cfg.CORSOrigin))

	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/leaderboard", h.topScores)

	authorized := api.Group("/")
	authorized.Use(authMW)
	{
		authorized.GET("/me", h.me)

		authorized.POST("/quiz/start", h.startQuiz)
		authorized.POST("/quiz/submit", h.submitQuiz)
		authorized.GET("/quiz/sessions", h.listSessions)
		authorized.GET("/quiz/sessions/:id", h.getSession)

		authorized.GET("/stats/subtopics", h.subtopicStats)
	}
	return r
}
