package middleware

import (
	"net/http"

	"go-biodata-backend/internal/delivery/http/response"
	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/apperror"
	"go-biodata-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects callers whose current role is not admin. It must run
// after AuthMiddleware. The resolved role is cached on the request context so
// the usecase layer does not look it up a second time.
func RequireAdmin(policy domain.AccessPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		if err := policy.RequireAdmin(c.Request.Context(), identity); err != nil {
			code := apperror.CodeOf(err)
			if code == http.StatusForbidden {
				security.DefaultLogger().LogForbidden(
					c.Request.Context(),
					identity.ID,
					identity.Email,
					c.ClientIP(),
					c.GetString(RequestIDKey),
					c.Request.URL.Path,
				)
			}
			// Let ErrorHandler render and log it
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserRole), domain.RoleAdmin)
		c.Request = c.Request.WithContext(domain.WithRole(c.Request.Context(), domain.RoleAdmin))
		c.Next()
	}
}
