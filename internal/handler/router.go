package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/gateway"
)

// Rate limit key
const (
	limitRegister = "register"
	limitResend   = "resend-register-otp"
	limitForgot   = "forgot-password"
)

// NewRouter wires the auth routes under /api.
func NewRouter(svc *gateway.AuthService, limiter *gateway.RateLimiter, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	router.GET("/ping", Ping)
	router.GET("/", Root)

	h := NewAuthHandler(svc, log)
	auth := router.Group("/api/auth")
	auth.POST("/register", RateLimit(limiter, limitRegister, log), h.Register)
	auth.POST("/verify", h.Verify)
	auth.POST("/login", h.Login)
	auth.POST("/resend-register-otp", RateLimit(limiter, limitResend, log), h.ResendRegisterOTP)
	auth.POST("/forgot-password", RateLimit(limiter, limitForgot, log), h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)
	auth.GET("/me", AuthMiddleware(svc.Tokens()), h.Me)

	return router
}
