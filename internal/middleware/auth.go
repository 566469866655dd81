package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/auth"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid "Bearer <token>" header and
// stores the caller's identity in the gin context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperr.Unauthenticated("Authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWith(c, apperr.Unauthenticated("Invalid token format (must be Bearer)"))
			return
		}

		// 2. --- Validate Token ---
		identity, err := verifier.Verify(parts[1])
		if err != nil {
			abortWith(c, apperr.Unauthenticated("Invalid or expired token"))
			return
		}

		// 3. --- Success ---
		c.Set(ContextUserID, identity.ID)
		c.Set(ContextUserEmail, identity.Email)
		c.Set(ContextUserRole, identity.Role)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware. The role comes from the
// verified token, so no database round trip is needed.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortWith(c, apperr.Unauthenticated("User ID not found in context"))
			return
		}

		if err := auth.Authorize(identity, models.RoleAdmin); err != nil {
			abortWith(c, apperr.Forbidden("Access denied: Admin role required"))
			return
		}
		c.Next()
	}
}

// IdentityFrom reads back what AuthMiddleware stored.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return auth.Identity{}, false
	}
	userID, ok := id.(int64)
	if !ok {
		return auth.Identity{}, false
	}
	return auth.Identity{
		ID:    userID,
		Email: c.GetString(ContextUserEmail),
		Role:  c.GetString(ContextUserRole),
	}, true
}

func abortWith(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(err.Kind), gin.H{"error": err.Message})
}
