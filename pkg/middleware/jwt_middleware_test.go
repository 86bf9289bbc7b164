package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/pkg/utils"
)

func testContext(header string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set(SessionKeyHeader, header)
	}
	return c
}

func TestSessionKey_Namespaces(t *testing.T) {
	victim := uuid.New()

	signedIn := testContext("")
	signedIn.Set(UserIDKey, victim)

	spoofed := testContext(victim.String())

	assert.Equal(t, "user:"+victim.String(), SessionKey(signedIn))
	assert.Equal(t, "anon:"+victim.String(), SessionKey(spoofed))
	assert.NotEqual(t, SessionKey(signedIn), SessionKey(spoofed))
}

func TestSessionKey_Anonymous(t *testing.T) {
	assert.Empty(t, SessionKey(testContext("")))
	assert.Empty(t, AnonymousSessionKey(testContext("   ")))
	assert.Equal(t, "anon:browser-1", SessionKey(testContext("browser-1")))

	c := testContext("browser-1")
	c.Set(UserIDKey, uuid.New())
	assert.Equal(t, "anon:browser-1", AnonymousSessionKey(c), "header survives sign-in")
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtManager := utils.NewJWTManager("test-secret")
	owner := uuid.New()
	token, err := jwtManager.CreateToken(owner)
	require.NoError(t, err)

	var seen uuid.UUID
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(jwtManager), func(c *gin.Context) {
		seen = CurrentUserID(c)
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   uuid.UUID
	}{
		{"valid token", "Bearer " + token, owner},
		{"no header", "", uuid.Nil},
		{"garbage token", "Bearer not-a-jwt", uuid.Nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tc.want, seen)
		})
	}
}
