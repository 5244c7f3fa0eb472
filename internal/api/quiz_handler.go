package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizard/internal/quiz"
)

type startRequest struct {
	Topic string `json:"topic"`
}

type startResponse struct {
	QuizSessionID string                `json:"quizSessionId"`
	Topic         string                `json:"topic"`
	Questions     []quiz.PublicQuestion `json:"questions"`
}

type answerRequest struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

type submitRequest struct {
	QuizSessionID string          `json:"quizSessionId" binding:"required"`
	Answers       []answerRequest `json:"answers" binding:"required"`
}

type submitResponse struct {
	Message        string `json:"message"`
	Score          int    `json:"score"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"`
}

// POST /api/quiz/start
func (h *Handler) startQuiz(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	res, err := h.quiz.Start(c.Request.Context(), uid, req.Topic)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, startResponse{
		QuizSessionID: res.SessionID,
		Topic:         res.Topic,
		Questions:     res.Questions,
	})
}

// POST /api/quiz/submit
func (h *Handler) submitQuiz(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	answers := make([]quiz.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = quiz.Answer{QuestionID: a.QuestionID, SelectedAnswer: a.SelectedAnswer}
	}

	res, err := h.quiz.Submit(c.Request.Context(), uid, req.QuizSessionID, answers)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResponse{
		Message:        "Quiz submitted successfully",
		Score:          res.Score,
		CorrectCount:   res.CorrectCount,
		TotalQuestions: res.TotalQuestions,
	})
}

const (
	defaultSessionPage = 20
	maxSessionPage     = 100
)

// GET /api/quiz/sessions?limit=N
func (h *Handler) listSessions(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	limit, err := queryInt(c, "limit", defaultSessionPage)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	limit = min(limit, maxSessionPage)
	sessions, err := h.quiz.History(c.Request.Context(), uid, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []quiz.SessionView{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GET /api/quiz/sessions/:id
func (h *Handler) getSession(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	view, err := h.quiz.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
