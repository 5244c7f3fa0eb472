// Package api exposes the quiz engine over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizard/internal/auth"
	"github.com/abhisek/quizard/internal/quiz"
	"github.com/abhisek/quizard/internal/stats"
	"github.com/abhisek/quizard/internal/store"
)

// QuizService is the part of *quiz.Engine the handlers use.
type QuizService interface {
	Start(ctx context.Context, userID, topic string) (*quiz.StartResult, error)
	Submit(ctx context.Context, userID, sessionID string, answers []quiz.Answer) (*quiz.SubmitResult, error)
	Get(ctx context.Context, userID, sessionID string) (*quiz.SessionView, error)
	History(ctx context.Context, userID string, limit int) ([]quiz.SessionView, error)
}

// StatsService is satisfied by *stats.Analyzer.
type StatsService interface {
	Summaries(ctx context.Context, userID string) ([]stats.SubtopicSummary, error)
}

// LeaderboardService is satisfied by *leaderboard.Service.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]store.LeaderboardEntry, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	quiz        QuizService
	stats       StatsService
	leaderboard LeaderboardService
	logger      *slog.Logger
}

func NewHandler(q QuizService, s StatsService, lb LeaderboardService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{quiz: q, stats: s, leaderboard: lb, logger: logger}
}

// respondError maps domain errors onto status codes. Anything unknown is
// logged and reported as a bare 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, quiz.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, quiz.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, quiz.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Quiz already completed"})
	default:
		h.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// userID returns the authenticated caller. The auth middleware guarantees
// a principal on every route it guards.
func userID(c *gin.Context) (string, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return p.UserID, true
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": nowUTC()})
}

func (h *Handler) me(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":    p.UserID,
		"email": p.Email,
		"name":  p.Name,
	}})
}
