package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nerdgeek/tienda/internal/service"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

// sessionCookieMaxAge is 7 days in seconds
const sessionCookieMaxAge = 7 * 24 * 60 * 60

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Captcha  int    `json:"captcha" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an inactive account and mails the activation link.
// POST /registro
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBind(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("username", req.Username),
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Register(req.Username, req.Email, req.Password, req.Captcha)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrActivationEmailFailed) {
			// The account was rolled back; the caller must know the send failed
			statusCode = http.StatusInternalServerError
		}

		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registro casi completo. Por favor confirma tu correo electrónico para activar tu cuenta.",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Activate verifies the emailed link, flips the account active and starts a
// session.
// GET /activate/:uid/:token
func (h *AuthHandler) Activate(c *gin.Context) {
	encodedUID := c.Param("uid")
	token := c.Param("token")

	user, sessionToken, err := h.authService.Activate(encodedUID, token)
	if err != nil {
		// One generic message for every failure mode
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "El link de activación es inválido o ha expirado.",
		})
		return
	}

	h.setSessionCookie(c, sessionToken)

	logger.Log.Info("User activated and logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	c.Redirect(http.StatusFound, "/")
}

// Login authenticates an active account.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBind(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		statusCode := http.StatusUnauthorized
		if errors.Is(err, service.ErrAccountNotActive) {
			statusCode = http.StatusForbidden
		}

		logger.Log.Warn("Login failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"superuser": user.Superuser,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	isProduction := h.authService.IsProduction()

	c.SetSameSite(http.SameSiteLaxMode) // CSRF protection
	c.SetCookie(
		"token",
		token,
		sessionCookieMaxAge,
		"/",
		"",           // domain (empty = current domain)
		isProduction, // secure (HTTPS-only in production)
		true,         // httpOnly
	)
}
