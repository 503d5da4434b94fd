package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proffyhq/proffy-api/internal/models"
	"github.com/proffyhq/proffy-api/internal/service"
	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
	"github.com/proffyhq/proffy-api/pkg/response"
)

// SessionHandler exposes the login endpoint.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login godoc
// @Summary Authenticate a tutor and issue an access token
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
