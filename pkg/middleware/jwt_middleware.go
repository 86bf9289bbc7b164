package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"itinera/pkg/utils"
)

const (
	UserIDKey        = "user_id"
	SessionKeyHeader = "X-Session-ID"
)

func JWTAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		userID, ok := authenticate(jwtManager, authHeader)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent and
// lets anonymous requests through.
func OptionalAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := authenticate(jwtManager, c.GetHeader("Authorization")); ok {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

func authenticate(jwtManager *utils.JWTManager, authHeader string) (uuid.UUID, bool) {
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return uuid.Nil, false
	}
	claims, err := jwtManager.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, false
	}
	userID, err := claims.OwnerID()
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// CurrentUserID is uuid.Nil for anonymous requests.
func CurrentUserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// SessionKey scopes the referral pointer. Signed-in callers and anonymous
// sessions live in separate namespaces so a client-chosen header can never
// address a user's slot.
func SessionKey(c *gin.Context) string {
	if id := CurrentUserID(c); id != uuid.Nil {
		return "user:" + id.String()
	}
	return AnonymousSessionKey(c)
}

// AnonymousSessionKey is empty when no session header was sent.
func AnonymousSessionKey(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader(SessionKeyHeader)); header != "" {
		return "anon:" + header
	}
	return ""
}
