package middleware

import (
	"net/http"
	"strings"

	"go-biodata-backend/internal/delivery/http/response"
	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/auth"
	"go-biodata-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const authCookieName = "auth_token"

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware verifies the caller's token and stores the identity on the
// gin context and on the request context. Roles are resolved later.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			logUnauthorized(c, "missing_token")
			response.Abort(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required")
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logUnauthorized(c, "invalid_token")
			response.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		identity := domain.Identity{
			ID:       claims.ID,
			Username: claims.Username,
			Email:    claims.Email,
		}
		c.Set(string(domain.KeyIdentity), identity)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	value, ok := c.Get(string(domain.KeyIdentity))
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := value.(domain.Identity)
	return identity, ok && identity.ID > 0
}

func extractToken(c *gin.Context) string {
	// 1. Try to get token from Header
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}

	// 2. Try to get token from Cookie
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

func logUnauthorized(c *gin.Context, reason string) {
	security.DefaultLogger().LogUnauthorized(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString(RequestIDKey),
		c.Request.URL.Path,
		reason,
	)
}
