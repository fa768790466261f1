package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/service"
)

// UserHandler mantiene dependencias para registro y perfil.
type UserHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

func NewUserHandler(logger *zap.Logger, auth *service.AuthService) *UserHandler {
	return &UserHandler{logger: logger, auth: auth}
}

// Register maneja POST /register.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		UserName    string `json:"user_name" binding:"required"`
		Password    string `json:"password" binding:"required"`
		FullName    string `json:"full_name" binding:"required"`
		Email       string `json:"email" binding:"omitempty,email"`
		PhoneNumber string `json:"phone_number"`
		UserType    string `json:"user_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		respond(c, http.StatusBadRequest, "invalid request")
		return
	}

	for _, check := range []func() (string, bool){
		func() (string, bool) { return validateUserName(req.UserName) },
		func() (string, bool) { return validatePassword(req.Password) },
		func() (string, bool) { return validateFullName(req.FullName) },
		func() (string, bool) { return validatePhone(req.PhoneNumber) },
	} {
		if msg, ok := check(); !ok {
			respond(c, http.StatusBadRequest, msg)
			return
		}
	}
	userType := domain.UserType(req.UserType)
	if !userType.Valid() {
		respond(c, http.StatusBadRequest, "invalid user type")
		return
	}

	_, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		UserName:    req.UserName,
		Password:    req.Password,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		UserType:    userType,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNameTaken) {
			respond(c, http.StatusBadRequest, domain.MsgUserNameNotAvailable)
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		internalServerError(c)
		return
	}
	respond(c, http.StatusCreated, domain.MsgUserRegistered)
}

// UpdateProfile maneja PUT /profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		UserID      string `json:"user_id" binding:"required"`
		FullName    string `json:"full_name" binding:"required"`
		UserName    string `json:"user_name" binding:"required"`
		Email       string `json:"email" binding:"omitempty,email"`
		PhoneNumber string `json:"phone_number"`
		Picture     string `json:"picture"`
		UserType    string `json:"user_type" binding:"required"`
		AccountType string `json:"account_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile request", zap.Error(err))
		respond(c, http.StatusBadRequest, "invalid request")
		return
	}
	if msg, ok := validatePhone(req.PhoneNumber); !ok {
		respond(c, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.auth.UpdateProfile(c.Request.Context(), domain.User{
		UserID:      req.UserID,
		FullName:    req.FullName,
		UserName:    req.UserName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Picture:     req.Picture,
		UserType:    domain.UserType(req.UserType),
		AccountType: domain.AccountType(req.AccountType),
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respond(c, http.StatusBadRequest, domain.MsgUserNotFound)
			return
		}
		h.logger.Error("update profile failed", zap.Error(err))
		internalServerError(c)
		return
	}
	respondWithUser(c, http.StatusCreated, domain.MsgUserProfileUpdated, updated)
}
