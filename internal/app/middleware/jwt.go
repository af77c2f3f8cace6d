package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"huntersrun-http-service/internal/domain/models"
	"huntersrun-http-service/internal/domain/services"
	"huntersrun-http-service/internal/infrastructure/config"
)

// IdentityKey 认证通过后身份上下文在gin.Context中的键
const IdentityKey = "identity"

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// abortUnauthorized 以统一格式返回401并终止请求
func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// abortForbidden 以统一格式返回403并终止请求
func abortForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"code":    403,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// Authentication 通用的认证中间件，验证令牌并把身份上下文写入gin.Context
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		tokenString := extractToken(authHeader)
		identity, err := jwtService.ExtractIdentity(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid token: "+err.Error())
			return
		}

		c.Set(IdentityKey, *identity)
		c.Next()
	}
}

// RequireRoles 在Authentication之后使用，限制访问角色
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		abortForbidden(c, "Insufficient permissions for role "+identity.Role)
	}
}

// RequireManagement 仅限管理角色（admin和manager）
func RequireManagement() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleManager)
}

// RequireStaff 仅限物业侧角色，租户不可访问
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleMaintenance)
}

// GetIdentity 从gin.Context中取出认证通过的身份上下文
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}
