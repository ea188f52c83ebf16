package handlers

import (
	"errors"
	"net/http"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto the protocol's error taxonomy:
// not-found rejections, conflicts, and plain bad requests.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAnswerConflict),
		errors.Is(err, services.ErrNotCurrentQuestion):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
