package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/container"
	handlers "github.com/mustafa-mbari/wmsv1-sub001/internal/interface/http"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/interface/middleware"
)

// AuthModule wires login, token refresh, logout, password reset and email
// verification.
// Public: POST /api/login, /api/refresh, /api/password/reset,
// /api/password/reset/confirm, /api/email/verify/confirm
// Protected: POST /api/logout, /api/email/verify
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	resetLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/password/reset", resetLimiter, m.Handler.ResetInit)
	rg.POST("/password/reset/confirm", resetLimiter, m.Handler.ResetConfirm)
	rg.POST("/email/verify/confirm", resetLimiter, m.Handler.VerifyConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, container.GetJWT()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/email/verify", m.Handler.VerifyInit)
	}
}
