package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/services"
)

type UserHandler struct {
	sessions *services.SessionService
	words    *services.WordService
}

func NewUserHandler(sessions *services.SessionService, words *services.WordService) *UserHandler {
	return &UserHandler{sessions: sessions, words: words}
}

type LoginRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// Login accepts a self-asserted host name and opens a fresh session for it.
// There is no password: identity here is only a display name plus the opaque
// id handed back to the client.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, session, err := h.sessions.Login(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "session": session})
}

type RegisterUserRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	SessionID string `json:"sessionId" binding:"required"`
}

func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.sessions.RegisterUser(c.Request.Context(), req.Name, req.SessionID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// PickTermoWord draws a random guessing word, skipping the index the client
// already played so consecutive rounds never repeat a word.
func (h *UserHandler) PickTermoWord(c *gin.Context) {
	exclude := -1
	if raw := c.Query("exclude"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid exclude index"})
			return
		}
		exclude = i
	}
	c.JSON(http.StatusOK, h.words.Pick(exclude))
}

// AssignWord hands the user its personal reveal word, assigning one on the
// first call and repeating it afterwards.
func (h *UserHandler) AssignWord(c *gin.Context) {
	word, err := h.words.AssignWord(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word})
}
