// Package http 提供用户认证接口的 HTTP 处理器。
package http

import (
	"errors"
	"net/http"

	"github.com/aurorajewels/storefront/internal/user/application"
	"github.com/aurorajewels/storefront/internal/user/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler 认证 HTTP 处理器
type AuthHandler struct {
	svc *application.AuthService
	jwt *middleware.JWTManager
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(svc *application.AuthService, jwt *middleware.JWTManager) *AuthHandler {
	return &AuthHandler{svc: svc, jwt: jwt}
}

// RegisterRoutes 注册路由
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)

	authed := router.Group("")
	authed.Use(middleware.RequireAuth(h.jwt))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
	authed.PUT("/auth/me", h.UpdateProfile)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.Register(c.Request.Context(), application.RegisterCommand{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		SessionID: c.GetString(middleware.SessionIDKey),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			response.ErrorWithStatus(c, http.StatusConflict, "email already registered", "")
		case errors.Is(err, domain.ErrWeakPassword):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		default:
			logger.Error(c.Request.Context(), "Registration failed", "error", err)
			response.Error(c, "registration failed")
		}
		return
	}

	response.Created(c, result)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), application.LoginCommand{
		Email:     req.Email,
		Password:  req.Password,
		SessionID: c.GetString(middleware.SessionIDKey),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid email or password", "")
			return
		}
		logger.Error(c.Request.Context(), "Login failed", "error", err)
		response.Error(c, "login failed")
		return
	}

	response.Success(c, result)
}

// Logout 登出
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.UserIDKey)
	if err := h.svc.Logout(c.Request.Context(), uid); err != nil {
		logger.Error(c.Request.Context(), "Logout failed", "uid", uid, "error", err)
		response.Error(c, "logout failed")
		return
	}
	response.NoContent(c)
}

// Me 当前用户资料
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Profile(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "user not found", "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to load profile", "error", err)
		response.Error(c, "failed to load profile")
		return
	}
	response.Success(c, user)
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Name           string `json:"name"`
	AddressLine1   string `json:"address_line1"`
	AddressCity    string `json:"address_city"`
	AddressState   string `json:"address_state"`
	AddressPostal  string `json:"address_postal"`
	AddressCountry string `json:"address_country"`
}

// UpdateProfile 更新姓名与默认收货地址
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), application.UpdateProfileCommand{
		UID:            c.GetString(middleware.UserIDKey),
		Name:           req.Name,
		AddressLine1:   req.AddressLine1,
		AddressCity:    req.AddressCity,
		AddressState:   req.AddressState,
		AddressPostal:  req.AddressPostal,
		AddressCountry: req.AddressCountry,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "user not found", "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to update profile", "error", err)
		response.Error(c, "failed to update profile")
		return
	}
	response.Success(c, user)
}
