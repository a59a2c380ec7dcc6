package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_go_server/internal/pkg/blacklist"
	"github.com/qs3c/recipe_go_server/internal/pkg/jwt"
	"github.com/qs3c/recipe_go_server/internal/pkg/response"
)

const (
	// UserIDKey 上下文中存放用户ID的键
	UserIDKey = "user_id"
	// ClaimsKey 上下文中存放完整claims的键
	ClaimsKey = "jwt_claims"
)

// Auth 认证中间件，校验access token
func Auth(secret string, bl *blacklist.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAuthHeader(c, secret)
		if !ok {
			return
		}
		if claims.Refresh {
			response.AuthError(c, "不能使用refresh token访问接口")
			c.Abort()
			return
		}
		if bl != nil {
			revoked, err := bl.Contains(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.AuthError(c, "登录已失效")
				c.Abort()
				return
			}
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件，带token则解析，不带则放行
func OptionalAuth(secret string, bl *blacklist.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := jwt.ParseToken(token, secret)
		if err != nil || claims.Refresh {
			c.Next()
			return
		}
		if bl != nil {
			revoked, blErr := bl.Contains(c.Request.Context(), claims.ID)
			if blErr == nil && revoked {
				c.Next()
				return
			}
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func parseAuthHeader(c *gin.Context, secret string) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.AuthError(c, "缺少认证信息")
		c.Abort()
		return nil, false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := jwt.ParseToken(token, secret)
	if err != nil {
		if err == jwt.ErrTokenExpired {
			response.AuthError(c, "登录已过期")
		} else {
			response.AuthError(c, "无效的token")
		}
		c.Abort()
		return nil, false
	}
	return claims, true
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetClaims 从上下文获取完整claims
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
