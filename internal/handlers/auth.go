package handlers

import (
	"errors"
	"net/http"

	"github.com/gatherly/backend/internal/auth"
	apierrors "github.com/gatherly/backend/internal/errors"
	"github.com/gatherly/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// Login authenticates with email/password and returns a JWT.
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest(err.Error()))
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(c, apierrors.Unauthorized("invalid credentials"))
			return
		}
		respondError(c, apierrors.Internal("login failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated caller.
// GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		respondError(c, apierrors.Unauthorized("user not authenticated"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.(*models.User)})
}
