package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// OwnerIDKey is the context key for the authenticated owner's ID
	OwnerIDKey = "owner_id"
	// IsAdminKey is the context key for the admin flag
	IsAdminKey = "is_admin"
)

// OwnerClaims are the token claims the API relies on. Subject is the owner UUID.
type OwnerClaims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin,omitempty"`
}

// Auth creates a middleware that requires an HS256 bearer token signed with
// secret. It stores the owner ID and admin flag in the context and tags the
// request logger with the owner.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims := &OwnerClaims{}
		_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected bearer token", map[string]interface{}{
					"error": err.Error(),
					"path":  c.Request.URL.Path,
				})
			}
			abortUnauthorized(c, msg)
			return
		}

		ownerID, err := uuid.Parse(claims.Subject)
		if err != nil || ownerID == uuid.Nil {
			abortUnauthorized(c, "Token subject is not an owner ID")
			return
		}

		c.Set(OwnerIDKey, ownerID)
		c.Set(IsAdminKey, claims.IsAdmin)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithOwner(ownerID))
		}

		c.Next()
	}
}

// RequireAdmin rejects requests whose token lacks the is_admin claim.
// It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		c.Next()
	}
}

// GetOwnerID retrieves the authenticated owner ID from the Gin context.
func GetOwnerID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(OwnerIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// IsAdmin reports whether the authenticated token carries is_admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(IsAdminKey)
}

// SignOwnerToken issues an HS256 token for ownerID. Used by tooling and tests.
func SignOwnerToken(secret string, ownerID uuid.UUID, isAdmin bool, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = ownerID.String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, OwnerClaims{RegisteredClaims: claims, IsAdmin: isAdmin})
	return token.SignedString([]byte(secret))
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// abortWithError writes the same body shape as the errors package, which
// cannot be imported here.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
