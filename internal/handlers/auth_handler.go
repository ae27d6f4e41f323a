package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-slots/internal/config"
	"github.com/BruksfildServices01/barber-slots/internal/httperr"
	"github.com/BruksfildServices01/barber-slots/internal/middleware"
)

const adminTokenTTL = 12 * time.Hour

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the administrator credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.config.AdminPasswordHash == "" ||
		email != strings.ToLower(h.config.AdminEmail) ||
		bcrypt.CompareHashAndPassword([]byte(h.config.AdminPasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email o contraseña incorrectos.")
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, email, middleware.RoleAdmin, adminTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "No se pudo generar el token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"role":       middleware.RoleAdmin,
		"expires_in": int(adminTokenTTL.Seconds()),
	})
}
