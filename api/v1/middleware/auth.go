package middleware

import (
	"errors"
	"strconv"
	"strings"

	"go_sitebuilder/internal/auth"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired is a middleware that validates JWT token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.FailErr(c, httpx.ErrUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				httpx.FailErr(c, httpx.ErrTokenExpired("token expired"))
			} else {
				httpx.FailErr(c, httpx.ErrInvalidToken("invalid token"))
			}
			c.Abort()
			return
		}

		c.Set("uid", claims.UID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("tenant_id", claims.TenantID)

		c.Next()
	}
}

// AdminOnly restricts a route group to platform admins
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != model.RoleAdmin {
			httpx.FailErr(c, httpx.ErrForbidden("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// TenantID resolves which tenant the request acts on. Tenant users are
// pinned to their own tenant; admins may select one with ?tenant_id=.
func TenantID(c *gin.Context) (int, *httpx.AppError) {
	if c.GetString("role") == model.RoleAdmin {
		raw := c.Query("tenant_id")
		if raw == "" {
			return 0, httpx.ErrParamMissing("tenant_id is required for admin requests")
		}
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return 0, httpx.ErrParamInvalid("tenant_id must be a positive integer")
		}
		return id, nil
	}

	tenantID := c.GetInt("tenant_id")
	if tenantID == 0 {
		return 0, httpx.ErrForbidden("no tenant associated with this account")
	}
	return tenantID, nil
}
