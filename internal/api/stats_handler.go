package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type subtopicResponse struct {
	Subtopic string  `json:"subtopic"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	Weak     bool    `json:"weak"`
}

type leaderboardRow struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"userId"`
	Name             string `json:"name"`
	TotalScore       int    `json:"totalScore"`
	QuizzesCompleted int    `json:"quizzesCompleted"`
}

// GET /api/stats/subtopics
func (h *Handler) subtopicStats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	sums, err := h.stats.Summaries(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]subtopicResponse, len(sums))
	for i, s := range sums {
		out[i] = subtopicResponse{
			Subtopic: s.Subtopic,
			Total:    s.Total,
			Correct:  s.Correct,
			Accuracy: s.Accuracy,
			Weak:     s.Weak,
		}
	}
	c.JSON(http.StatusOK, gin.H{"subtopics": out})
}

// GET /api/leaderboard?limit=N
func (h *Handler) topScores(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	rows := make([]leaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = leaderboardRow{
			Rank:             i + 1,
			UserID:           e.UserID,
			Name:             e.Name,
			TotalScore:       e.TotalScore,
			QuizzesCompleted: e.QuizzesCompleted,
		}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}
