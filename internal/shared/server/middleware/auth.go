package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/shared/auth"
	"sim-backend/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	userPictureKey = "userPicture"
	roleKey        = "executiveRole"
	isGuestKey     = "isGuest"
)

// GuestHeader identifies unauthenticated callers in dev and demo setups.
const GuestHeader = "X-Guest-Id"

// Auth validates bearer JWTs or guest headers and stores identity in context.
// Paths under publicPrefixes skip authentication.
func Auth(publicPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(userIDKey, claims.Sub)
			setIfPresent(c, userEmailKey, claims.Email)
			setIfPresent(c, userNameKey, claims.Name)
			setIfPresent(c, userPictureKey, claims.Picture)
			setIfPresent(c, roleKey, claims.Role)
			c.Set(isGuestKey, false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(GuestHeader))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set(isGuestKey, true)
		c.Next()
	}
}

func setIfPresent(c *gin.Context, key, value string) {
	if value != "" {
		c.Set(key, value)
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userNameKey)
}

// UserPictureFromContext fetches the user picture set by the auth middleware.
func UserPictureFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userPictureKey)
}

// RoleFromContext returns the executive role claim, if any.
func RoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(roleKey)
}

// IsGuest reports whether the caller authenticated with the guest header.
func IsGuest(c *gin.Context) bool {
	return c != nil && c.GetBool(isGuestKey)
}
