package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.sessions.CreateSession(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

type AdvanceRequest struct {
	UserID string `json:"userId" binding:"required"`
	Phase  string `json:"phase"`
}

// Advance is the REST fallback for hosts without a live socket. The phase in
// the request is advisory; the server computes the real successor and the
// committed transition is broadcast to the room by the service's notifier,
// exactly like a socket-initiated advance.
func (h *SessionHandler) Advance(c *gin.Context) {
	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.sessions.AdvancePhase(c.Request.Context(), c.Param("id"), req.Phase, req.UserID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.sessions.GetLeaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
