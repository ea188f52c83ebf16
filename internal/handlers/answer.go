package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/services"
)

type AnswerHandler struct {
	sessions *services.SessionService
}

func NewAnswerHandler(sessions *services.SessionService) *AnswerHandler {
	return &AnswerHandler{sessions: sessions}
}

type submitAnswerRequest struct {
	AnswerType string `json:"answerType" binding:"required,oneof=quiz termo"`

	UserID    string  `json:"userId" binding:"required"`
	SessionID string  `json:"sessionId" binding:"required"`
	TimeTaken float64 `json:"timeTaken"`

	// quiz fields
	QuestionID    string `json:"questionId"`
	SelectedIndex *int   `json:"selectedIndex"`

	// termo fields
	TermoWordIndex *int `json:"termoWordIndex"`
	JustWon        bool `json:"justWon"`
	FailedAttempts int  `json:"failedAttempts"`
}

// SubmitAnswer accepts both quiz and termo submissions, discriminated by
// answerType. The result goes back to the submitter only; peers pick up the
// scoreboard from their next snapshot.
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var result *services.AnswerResult
	var err error
	switch req.AnswerType {
	case "quiz":
		if req.QuestionID == "" || req.SelectedIndex == nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload in quiz"})
			return
		}
		result, err = h.sessions.SubmitQuizAnswer(c.Request.Context(), services.QuizAnswer{
			UserID:        req.UserID,
			SessionID:     req.SessionID,
			QuestionID:    req.QuestionID,
			SelectedIndex: req.SelectedIndex,
			TimeTaken:     req.TimeTaken,
		})
	case "termo":
		if req.TermoWordIndex == nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload in termo"})
			return
		}
		result, err = h.sessions.SubmitTermoAnswer(c.Request.Context(), services.TermoAnswer{
			UserID:         req.UserID,
			SessionID:      req.SessionID,
			WordIndex:      req.TermoWordIndex,
			Solved:         req.JustWon,
			FailedAttempts: req.FailedAttempts,
			TimeTaken:      req.TimeTaken,
		})
	}
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"answer":          result.Answer,
		"isCorrect":       result.IsCorrect,
		"pointsEarned":    result.PointsEarned,
		"userTotalPoints": result.UserTotalPoints,
	})
}

type recordScoreRequest struct {
	UserID    string `json:"userId" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
	Phase     string `json:"phase" binding:"required,oneof=QUIZ TERMO"`
	Points    int    `json:"points"`
}

// RecordScore upserts a user's per-phase total at the end of a mini-game.
func (h *AnswerHandler) RecordScore(c *gin.Context) {
	var req recordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	score, err := h.sessions.RecordFinalScore(c.Request.Context(), req.UserID, req.SessionID, req.Phase, req.Points)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}
