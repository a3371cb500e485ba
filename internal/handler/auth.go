package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/gateway"
	"github.com/phazelsound/client/internal/model"
)

type AuthHandler struct {
	svc *gateway.AuthService
	log *logrus.Logger
}

func NewAuthHandler(svc *gateway.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register godoc
// @Summary Register a new user
// @Description Stores the account unverified and mails a registration OTP.
// @Tags auth
// @Accept json
// @Produce plain
// @Param request body model.RegisterRequest true "Name, email, phone and password"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Failure 429 {object} model.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, invalidRequest)
		return
	}

	msg, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// Verify godoc
// @Summary Verify a registration OTP
// @Tags auth
// @Produce plain
// @Param email query string true "Email"
// @Param otp query string true "OTP code"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Router /api/auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var q model.VerifyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, invalidRequest)
		return
	}

	msg, err := h.svc.VerifyRegisterOTP(c.Request.Context(), q.Email, q.OTP)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// Login godoc
// @Summary Login with email or phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Identifier and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {string} string
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, invalidRequest)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResendRegisterOTP godoc
// @Summary Resend the registration OTP
// @Tags auth
// @Produce plain
// @Param email query string true "Email"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Failure 429 {object} model.ErrorResponse
// @Router /api/auth/resend-register-otp [post]
func (h *AuthHandler) ResendRegisterOTP(c *gin.Context) {
	var q model.EmailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, invalidRequest)
		return
	}

	msg, err := h.svc.ResendRegisterOTP(c.Request.Context(), q.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// ForgotPassword godoc
// @Summary Mail a password reset OTP
// @Tags auth
// @Produce plain
// @Param email query string true "Email"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Failure 429 {object} model.ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var q model.EmailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, invalidRequest)
		return
	}

	msg, err := h.svc.ForgotPassword(c.Request.Context(), q.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// ResetPassword godoc
// @Summary Reset the password with a forgot-password OTP
// @Tags auth
// @Accept json
// @Produce plain
// @Param request body model.ResetPasswordRequest true "Email, OTP and new password"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, invalidRequest)
		return
	}

	msg, err := h.svc.ResetPassword(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: http.StatusText(http.StatusUnauthorized)})
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), user.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

const invalidRequest = "Invalid request."

// 400은 text/plain 본문, 그 외는 JSON
func (h *AuthHandler) writeError(c *gin.Context, err error) {
	if rErr, ok := gateway.AsReject(err); ok {
		if rErr.Status == http.StatusBadRequest {
			c.String(rErr.Status, rErr.Message)
			return
		}
		c.JSON(rErr.Status, model.ErrorResponse{Error: http.StatusText(rErr.Status), Message: rErr.Message})
		return
	}
	if errors.Is(err, gateway.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: http.StatusText(http.StatusUnauthorized)})
		return
	}

	h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}
