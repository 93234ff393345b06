package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecoharvest-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtm *auth.Manager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(jwtm)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetString("userID"),
			"role":   c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	jwtm := auth.NewManager("test-secret", time.Hour)
	token, err := jwtm.Generate("user-1", "customer")
	require.NoError(t, err)

	r := newAuthRouter(jwtm)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	jwtm := auth.NewManager("test-secret", time.Hour)
	r := newAuthRouter(jwtm)

	// No header at all.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing the Bearer prefix.
	token, err := jwtm.Generate("user-1", "customer")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsForeignToken(t *testing.T) {
	other := auth.NewManager("other-secret", time.Hour)
	token, err := other.Generate("user-1", "customer")
	require.NoError(t, err)

	r := newAuthRouter(auth.NewManager("test-secret", time.Hour))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwtm := auth.NewManager("test-secret", time.Hour)
	r := newAuthRouter(jwtm, RequireRole("admin", "staff"))

	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"staff", http.StatusOK},
		{"customer", http.StatusForbidden},
	}
	for _, tc := range cases {
		token, err := jwtm.Generate("user-1", tc.role)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "role %s", tc.role)
	}
}

func TestAgentAuth(t *testing.T) {
	r := gin.New()
	r.GET("/agent", AgentAuth("agent-key"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/agent", nil)
	req.Header.Set("x-api-key", "agent-key")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/agent", nil)
	req.Header.Set("x-api-key", "wrong-key")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agent", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAgentAuthDisabledWhenKeyUnset(t *testing.T) {
	r := gin.New()
	r.GET("/agent", AgentAuth(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// An empty configured key locks the routes rather than opening them.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/agent", nil)
	req.Header.Set("x-api-key", "")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
