package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/pkg/jwt"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/redis"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/response"
)

// 上下文键
const (
	ContextKeyClaims        = "claims"
	ContextKeyUserID        = "user_id"
	ContextKeyRole          = "role"
	ContextKeyInstitutionID = "institution_id"
)

// JWTAuth 认证中间件：解析 Bearer Token 并检查黑名单
// redisClient 为 nil 时跳过黑名单检查（降级运行）
func JWTAuth(jwtMgr *jwt.Manager, redisClient *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 40101, "缺少认证信息")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 40102, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, 40103, "token 已过期")
			} else {
				response.Unauthorized(c, 40104, "token 无效")
			}
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 40105, "token 类型错误")
			c.Abort()
			return
		}

		if redisClient != nil {
			blacklisted, err := redisClient.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("黑名单查询失败，放行", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, 40106, "token 已失效")
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyInstitutionID, claims.InstitutionID)
		c.Next()
	}
}

// RoleAuth 角色授权中间件：要求当前用户角色命中给定集合
func RoleAuth(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextKeyRole)
		if !allowed[role] {
			response.Forbidden(c, 40301, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}
