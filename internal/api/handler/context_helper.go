package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/RoobanKR/LMS-Server-sub001/internal/api/middleware"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/jwt"
)

// getUserID 获取当前登录用户 ID（JWTAuth 之后可用）
func getUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextKeyUserID)
}

// getClaims 获取当前请求的 JWT 声明
func getClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get(middleware.ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		return nil
	}
	return claims
}
