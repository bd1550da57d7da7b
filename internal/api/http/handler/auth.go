package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/service"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth_token"

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// Register creates a new account.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "email and a password of 8 to 100 characters are required"})
		return
	}

	h.logger.Debug("Auth handler: processing registration request", "email", req.Email)

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: registration completed", "email", user.Email)

	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// Login verifies credentials and sets the session cookie. The cookie is
// HttpOnly and SameSite=None so browser clients on another origin can carry
// it; the token is also returned in the body for non-browser clients.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	h.logger.Debug("Auth handler: processing login request", "email", req.Email)

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: login completed", "email", session.Email)

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, session.Token,
		int(time.Until(session.ExpiresAt).Seconds()), "/", "", true, true)

	c.JSON(http.StatusOK, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      userResponse{ID: session.UserID, Email: session.Email},
	})
}
