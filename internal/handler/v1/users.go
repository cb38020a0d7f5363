package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GFattehallah/cmhe-manager/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	user.PasswordHash = ""
	respondOK(c, loginResponse{User: user, Tokens: tokens})
}

func (h *Handler) currentUser(c *gin.Context) {
	claims := sessionClaims(c)
	user, err := h.auth.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	user.PasswordHash = ""
	respondOK(c, user)
}

func (h *Handler) listUsers(c *gin.Context) {
	respondOK(c, h.auth.ListUsers(c.Request.Context()))
}

type saveUserRequest struct {
	domain.User
	Password string `json:"password"`
}

func (h *Handler) saveUser(c *gin.Context) {
	var req saveUserRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.auth.SaveUser(c.Request.Context(), req.User, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved.PasswordHash = ""
	respondCreated(c, saved)
}

func (h *Handler) deleteUser(c *gin.Context) {
	claims := sessionClaims(c)
	if claims != nil && claims.UserID == c.Param("id") {
		respondError(c, http.StatusBadRequest, "cannot delete the active session's own account")
		return
	}
	if err := h.auth.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}
