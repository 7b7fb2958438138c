package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/jwt"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/response"
)

// AuthHandler 认证接口
type AuthHandler struct {
	svc    service.AuthService
	logger *zap.Logger
}

// NewAuthHandler 创建认证 Handler
func NewAuthHandler(svc service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 40110, err.Error())
		case errors.Is(err, service.ErrUserInactive):
			response.Forbidden(c, 40310, err.Error())
		default:
			h.logger.Error("登录失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenInvalid),
			errors.Is(err, service.ErrInvalidTokenType),
			errors.Is(err, service.ErrTokenBlacklisted),
			errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 40111, "refresh token 无效")
		default:
			h.logger.Error("刷新 token 失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}

// Logout 用户登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := getClaims(c)
	if claims == nil {
		response.Unauthorized(c, 40101, "缺少认证信息")
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		h.logger.Error("登出失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"message": "登出成功"})
}

// Me 当前登录用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("查询当前用户失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}
