package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/akitdaekm/membership_backend/models"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/gin-gonic/gin"
)

// Both middlewares are permissive on absence and strict on invalidity: a
// request with no token passes through anonymous (handlers decide what
// anonymity is allowed to do), but a token that fails validation is rejected
// outright.

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.Request.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AdminAuthMiddleware resolves the admin session from the admin_token cookie
// or an Authorization bearer and stashes the admin id and role in the request
// context.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, "admin_token")
		if token == "" {
			c.Next()
			return
		}

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok || claims.Role == models.RoleMember {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetAdminIdInContext(ctx, claims.ID)
		ctx = utils.SetAdminRoleInContext(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// MemberAuthMiddleware resolves the member session from the member_token
// cookie or an Authorization bearer.
func MemberAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, "member_token")
		if token == "" {
			c.Next()
			return
		}

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok || claims.Role != models.RoleMember {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetMemberIdInContext(ctx, claims.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
