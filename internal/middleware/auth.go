package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/attendance_backend_v1/internal/auth"
	"github.com/zaqqye/attendance_backend_v1/internal/cache"
	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	adminKey  = "admin"
	claimsKey = "claims"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"statusCode": status, "message": msg})
}

// bearer returns the access token from the cookie, falling back to the
// Authorization header.
func bearer(c *gin.Context) string {
	if token, err := c.Cookie(AccessCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthMiddleware admits requests carrying a valid, unrevoked access token
// of an existing administrator.
func AuthMiddleware(admins store.Admins, tokens *auth.Issuer, blacklist *cache.Blacklist, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid access token")
			return
		}
		revoked, err := blacklist.Revoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error(c.Request.Context(), "blacklist lookup failed", "error", err)
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, "Access token has been revoked")
			return
		}
		admin, err := admins.GetAdminByID(c.Request.Context(), claims.AdminID)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, http.StatusUnauthorized, "Invalid access token")
			return
		}
		if err != nil {
			log.Error(c.Request.Context(), "admin lookup failed", "error", err)
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(adminKey, admin.View())
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentAdmin returns the administrator stored by AuthMiddleware.
func CurrentAdmin(c *gin.Context) (models.AdminView, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return models.AdminView{}, false
	}
	admin, ok := v.(models.AdminView)
	return admin, ok
}

func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
