package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/application"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/interface/middleware"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/helpers"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/validation"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // username or email
	Password   string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrUserInactive) {
			fail(c, http.StatusForbidden, "account is deactivated", nil)
			return
		}
		fail(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	ok(c, http.StatusOK, res, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Auth.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	ok[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if uid := c.GetString(middleware.CtxUserIDKey); uid != "" {
		h.Auth.Logout(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	ok[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetInit always answers 200; the response never reveals whether the email
// exists.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("password reset request failed")
		}
		fail(c, http.StatusInternalServerError, "could not process reset request", nil)
		return
	}
	ok[any](c, http.StatusOK, gin.H{"requested": true}, "if the email exists, a reset link has been sent", nil)
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, application.ErrResetTokenInvalid) {
			fail(c, http.StatusUnauthorized, "reset token is invalid or expired", nil)
			return
		}
		fail(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	ok[any](c, http.StatusOK, gin.H{"reset": true}, "password has been reset", nil)
}

func (h *AuthHandler) VerifyInit(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Auth.RequestEmailVerification(c.Request.Context(), uid); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("verification request failed")
		}
		fail(c, http.StatusInternalServerError, "could not send verification email", nil)
		return
	}
	ok[any](c, http.StatusOK, gin.H{"requested": true}, "verification email sent", nil)
}

type verifyConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ConfirmEmailVerification(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, application.ErrVerifyTokenInvalid) {
			fail(c, http.StatusUnauthorized, "verification token is invalid or expired", nil)
			return
		}
		fail(c, http.StatusInternalServerError, "verification failed", nil)
		return
	}
	ok[any](c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}
