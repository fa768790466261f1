package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth}
}

// Login maneja POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		UserName string `json:"user_name" binding:"required"`
		Password string `json:"password" binding:"required"`
		UserType string `json:"user_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		respond(c, http.StatusBadRequest, "invalid request")
		return
	}
	if msg, ok := validatePassword(req.Password); !ok {
		respond(c, http.StatusBadRequest, msg)
		return
	}
	userType := domain.UserType(req.UserType)
	if !userType.Valid() {
		respond(c, http.StatusBadRequest, domain.MsgInvalidCredentials)
		return
	}

	user, tokens, err := h.auth.Login(c.Request.Context(), req.UserName, req.Password, userType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respond(c, http.StatusBadRequest, domain.MsgRegisterFirst)
		case errors.Is(err, service.ErrInvalidCredentials):
			respond(c, http.StatusBadRequest, domain.MsgInvalidCredentials)
		default:
			h.logger.Error("login failed", zap.Error(err))
			internalServerError(c)
		}
		return
	}
	respondWithSession(c, http.StatusCreated, domain.MsgLoginSuccess, user, tokens)
}

// GoogleLogin maneja POST /google_login.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid google login request", zap.Error(err))
		respond(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, tokens, err := h.auth.GoogleLogin(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken):
			respond(c, http.StatusUnauthorized, domain.MsgInvalidToken)
		case errors.Is(err, service.ErrGoogleNotVerified):
			respond(c, http.StatusUnauthorized, domain.MsgNotGoogleVerified)
		default:
			h.logger.Error("google login failed", zap.Error(err))
			internalServerError(c)
		}
		return
	}
	respondWithSession(c, http.StatusAccepted, domain.MsgLoginSuccess, user, tokens)
}

// RequestOTP maneja POST /otp_request.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid otp request", zap.Error(err))
		respond(c, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := h.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrTooManyRequests) {
			respond(c, http.StatusBadRequest, domain.MsgManyOTPRequests)
			return
		}
		h.logger.Error("request otp failed", zap.Error(err))
		internalServerError(c)
		return
	}
	respond(c, http.StatusCreated, domain.MsgEmailSent)
}

// VerifyOTP maneja POST /otp_verify.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid otp verify request", zap.Error(err))
		respond(c, http.StatusBadRequest, "Invalid email address")
		return
	}
	if !isFourDigits(req.OTP) {
		respond(c, http.StatusBadRequest, "OTP must be 4 digits")
		return
	}

	user, tokens, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			respond(c, http.StatusBadRequest, domain.MsgRequestOTPFirst)
		case errors.Is(err, service.ErrChallengeExpired):
			respond(c, http.StatusBadRequest, domain.MsgOTPExpiredOrInvalid)
		default:
			h.logger.Error("verify otp failed", zap.Error(err))
			internalServerError(c)
		}
		return
	}
	respondWithSession(c, http.StatusAccepted, domain.MsgLoginSuccess, user, tokens)
}
